package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-reminder/internal/api/shared"
	"github.com/phrazzld/todo-reminder/internal/domain"
)

// Integration describes this service to the chat platform that schedules ticks.
type Integration struct {
	Data IntegrationData `json:"data"`
}

// IntegrationData is the body of the integration descriptor.
type IntegrationData struct {
	Date                IntegrationDates        `json:"date"`
	Descriptions        IntegrationDescriptions `json:"descriptions"`
	IntegrationCategory string                  `json:"integration_category"`
	IntegrationType     string                  `json:"integration_type"`
	IsActive            bool                    `json:"is_active"`
	KeyFeatures         []string                `json:"key_features"`
	Author              string                  `json:"author"`
	Website             string                  `json:"website"`
	Settings            []IntegrationSetting    `json:"settings"`
	Endpoints           []IntegrationEndpoint   `json:"endpoints"`
	TargetURL           string                  `json:"target_url"`
	TickURL             string                  `json:"tick_url"`
}

// IntegrationDates holds the descriptor's creation and update dates.
type IntegrationDates struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// IntegrationDescriptions holds display metadata.
type IntegrationDescriptions struct {
	AppDescription  string `json:"app_description"`
	AppLogo         string `json:"app_logo"`
	AppName         string `json:"app_name"`
	AppURL          string `json:"app_url"`
	BackgroundColor string `json:"background_color"`
}

// IntegrationSetting is a user-configurable setting.
type IntegrationSetting struct {
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  string `json:"default"`
}

// IntegrationEndpoint documents one public endpoint.
type IntegrationEndpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// IntegrationInfo is the static part of the descriptor.
type IntegrationInfo struct {
	AppName     string
	Description string
	LogoURL     string
	Author      string
	// DefaultTime is the HH:MM used to build the default daily interval.
	DefaultTime string
}

// IntegrationHandler serves GET /integration-json.
type IntegrationHandler struct {
	info   IntegrationInfo
	now    func() time.Time
	logger *slog.Logger
}

// NewIntegrationHandler creates an IntegrationHandler. now defaults to time.Now.
func NewIntegrationHandler(info IntegrationInfo, now func() time.Time, logger *slog.Logger) *IntegrationHandler {
	if info.AppName == "" {
		info.AppName = "Daily To-Do Reminder"
	}
	if info.Description == "" {
		info.Description = "A simple to-do reminder that sends tasks daily at custom times."
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IntegrationHandler{
		info:   info,
		now:    now,
		logger: logger.With(slog.String("component", "integration_handler")),
	}
}

// GetIntegration returns the descriptor with URLs computed from the request.
func (h *IntegrationHandler) GetIntegration(w http.ResponseWriter, r *http.Request) {
	baseURL := requestBaseURL(r)
	today := domain.Today(h.now())

	shared.RespondWithJSON(w, r, http.StatusOK, Integration{Data: IntegrationData{
		Date: IntegrationDates{CreatedAt: today, UpdatedAt: today},
		Descriptions: IntegrationDescriptions{
			AppDescription:  h.info.Description,
			AppLogo:         h.info.LogoURL,
			AppName:         h.info.AppName,
			AppURL:          baseURL,
			BackgroundColor: "#00fbff",
		},
		IntegrationCategory: "Project Management",
		IntegrationType:     "interval",
		IsActive:            true,
		KeyFeatures: []string{
			"Sends daily reminders",
			"Allows adding tasks dynamically",
			"Clears tasks after sending reminders",
			"Allows setting custom reminder times",
			"Lists tasks scheduled for the day",
		},
		Author:  h.info.Author,
		Website: baseURL,
		Settings: []IntegrationSetting{
			{Label: "interval", Type: "text", Required: true, Default: dailyCron(h.info.DefaultTime)},
		},
		Endpoints: []IntegrationEndpoint{
			{Path: "/add-task", Method: http.MethodPost, Description: "adds a new task and time to the reminder list"},
			{Path: "/list-tasks", Method: http.MethodGet, Description: "lists all task scheduled for that day"},
		},
		TargetURL: "",
		TickURL:   baseURL + "/tick",
	}})
}

// dailyCron turns HH:MM into a once-a-day cron expression, defaulting to 09:00.
func dailyCron(hhmm string) string {
	tod, err := domain.ParseTimeOfDay(hhmm)
	if err != nil {
		tod = domain.TimeOfDay{Hour: 9}
	}
	return fmt.Sprintf("%d %d * * *", tod.Minute, tod.Hour)
}
