package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
	Webhook  WebhookConfig  `mapstructure:"webhook" validate:"required"`
	CORS     CORSConfig     `mapstructure:"cors" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=120"`
	// Environment is attached to every log record.
	Environment string `mapstructure:"environment" validate:"required,oneof=development staging production"`
}

// DatabaseConfig selects and configures the reminder store backend.
type DatabaseConfig struct {
	// Driver is "sqlite" (default, file backed) or "postgres".
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	// URL is the PostgreSQL connection string.
	URL string `mapstructure:"url" validate:"required_if=Driver postgres"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// ReminderConfig contains task intake settings.
type ReminderConfig struct {
	// DefaultTime is used when a task is added without a time.
	DefaultTime string `mapstructure:"default_time" validate:"required,datetime=15:04"`
}

// WebhookConfig controls outbound digest delivery.
type WebhookConfig struct {
	// DefaultURL is used when a tick request carries no return_url.
	DefaultURL     string `mapstructure:"default_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0,lte=300"`
	// SigningSecret enables HMAC signatures on deliveries when set.
	SigningSecret string `mapstructure:"signing_secret" validate:"omitempty,min=16"`
	EventName     string `mapstructure:"event_name" validate:"required"`
	Username      string `mapstructure:"username" validate:"required"`
}

// Timeout returns the delivery timeout as a duration.
func (w WebhookConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"min=1,dive,required"`
}
