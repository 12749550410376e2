// Package config loads application settings with viper from defaults, an
// optional YAML file and REMINDER_-prefixed environment variables, and
// validates them with struct tags.
package config
