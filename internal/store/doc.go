// Package store defines interfaces for reminder persistence and the shared
// helpers (DBTX, transactions, error types) used by its implementations in
// internal/platform. Business rules stay independent of the database engine.
package store
