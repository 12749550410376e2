// Package sqlite provides the embedded, zero-configuration implementation of
// store.ReminderStore on top of modernc.org/sqlite. It is the default backend
// when no PostgreSQL URL is configured.
package sqlite
