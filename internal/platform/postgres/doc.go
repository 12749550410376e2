// Package postgres provides the PostgreSQL implementation of
// store.ReminderStore, together with its embedded goose migrations and the
// mapping from PostgreSQL error codes to store errors.
package postgres
