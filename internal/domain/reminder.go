package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts used for the text-typed date and time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Reminder is a single to-do item scheduled for a date and time of day.
type Reminder struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
	Task string `json:"task"`
}

// NewReminder builds a validated, not yet persisted Reminder.
// The task is trimmed; date and time must be well formed.
// It does not check the date against the current day, see ValidateNotPast.
func NewReminder(date, timeOfDay, task string) (*Reminder, error) {
	r := &Reminder{
		Date: strings.TrimSpace(date),
		Time: strings.TrimSpace(timeOfDay),
		Task: strings.TrimSpace(task),
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the fields of the Reminder.
func (r *Reminder) Validate() error {
	if r.Task == "" {
		return ErrEmptyTask
	}

	if _, err := ParseDate(r.Date); err != nil {
		return err
	}

	if _, err := ParseTimeOfDay(r.Time); err != nil {
		return err
	}

	return nil
}

// ValidateNotPast returns ErrPastDate when the reminder date is strictly
// earlier than today (YYYY-MM-DD). Dates compare lexically in this layout.
func (r *Reminder) ValidateNotPast(today string) error {
	if r.Date < today {
		return ErrPastDate
	}
	return nil
}

// Display renders the reminder as a "time - task" line.
func (r Reminder) Display() string {
	return fmt.Sprintf("%s - %s", r.Time, r.Task)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Today returns the UTC calendar date of now as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// TimeOfDay is an hour and minute within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a 24-hour HH:MM string. A single-digit hour is
// accepted; minutes must have two digits.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return TimeOfDay{}, ErrInvalidTime
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, ErrInvalidTime
	}

	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTime
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// TimeOfDayOf returns the UTC hour and minute of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	t = t.UTC()
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after other.
func (t TimeOfDay) Compare(other TimeOfDay) int {
	a := t.Hour*60 + t.Minute
	b := other.Hour*60 + other.Minute
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Elapsed reports whether t is at or before now.
func (t TimeOfDay) Elapsed(now TimeOfDay) bool {
	return t.Compare(now) <= 0
}

// String formats t as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
