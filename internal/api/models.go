package api

// AddTaskRequest defines the payload for POST /add-task.
// Time and Date are optional; the service applies defaults.
type AddTaskRequest struct {
	Task string `json:"task" validate:"max=1000"`
	Time string `json:"time"`
	Date string `json:"date"`
}

// TickRequest defines the optional payload for POST /tick.
type TickRequest struct {
	ReturnURL string `json:"return_url"`
}

// TasksResponse lists today's reminders as display lines.
type TasksResponse struct {
	Tasks []string `json:"tasks"`
}

// RemindersResponse lists every stored reminder grouped by date.
type RemindersResponse struct {
	Reminders map[string][]string `json:"reminders"`
}

// DeletedResponse reports how many reminders were removed.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// TickResponse is the outcome of a tick. Detail is set only on errors.
type TickResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// AddTaskResponse confirms a stored task.
type AddTaskResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Task    string `json:"task"`
}
