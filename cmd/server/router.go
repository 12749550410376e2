package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/todo-reminder/internal/api"
	apiMiddleware "github.com/phrazzld/todo-reminder/internal/api/middleware"
)

// setupRouter creates the router with middleware and every route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(app.metrics.Middleware)

	reminderHandler := api.NewReminderHandler(app.reminderService, app.logger)
	tickHandler := api.NewTickHandler(app.tickService, app.logger)
	integrationHandler := api.NewIntegrationHandler(api.IntegrationInfo{
		AppName:     app.config.Webhook.EventName,
		LogoURL:     "https://res.cloudinary.com/dcnnysxm9/image/upload/v1739862586/to-do_reminder_xdzgb2.webp",
		DefaultTime: app.config.Reminder.DefaultTime,
	}, app.now, app.logger)
	healthHandler := api.NewHealthHandler(app.storage.reminders, app.logger)

	r.Post("/add-task", reminderHandler.AddTask)
	r.Get("/list-tasks", reminderHandler.ListTasks)
	r.Post("/tick", tickHandler.Tick)
	r.Get("/integration-json", integrationHandler.GetIntegration)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", reminderHandler.ListReminders)
		r.Delete("/", reminderHandler.ClearDate)
		r.Delete("/{id}", reminderHandler.DeleteTask)
	})

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
