package domain

import "strings"

// NoPendingTasks is the single line selected when nothing is scheduled today.
const NoPendingTasks = "No pending tasks!"

// DigestHeader opens every digest message.
const DigestHeader = "\U0001F4DD Daily To-Do List:"

// GroupByDate groups reminders by date, keeping the input order within a
// date. Input is expected in insertion order.
func GroupByDate(reminders []Reminder) map[string][]string {
	grouped := make(map[string][]string)
	for _, r := range reminders {
		grouped[r.Date] = append(grouped[r.Date], r.Display())
	}
	return grouped
}

// SelectDue returns the display lines scheduled for today, or the
// NoPendingTasks sentinel when there are none.
func SelectDue(today string, grouped map[string][]string) []string {
	lines := grouped[today]
	if len(lines) == 0 {
		return []string{NoPendingTasks}
	}

	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// ComposeDigest renders the due lines as a bulleted message under DigestHeader.
// An empty input is treated as the NoPendingTasks sentinel.
func ComposeDigest(lines []string) string {
	if len(lines) == 0 {
		lines = []string{NoPendingTasks}
	}

	var b strings.Builder
	b.WriteString(DigestHeader)
	for _, line := range lines {
		b.WriteString("\n- ")
		b.WriteString(line)
	}
	return b.String()
}
