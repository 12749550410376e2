package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/platform/migrate"
	"github.com/phrazzld/todo-reminder/internal/platform/sqlite"
	"github.com/pressly/goose/v3/database"
	"github.com/stretchr/testify/require"
)

// NewSQLiteDB creates a migrated SQLite database in a per-test temp directory.
// The connection is closed when the test finishes.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	path := filepath.Join(t.TempDir(), "reminders.db")
	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err, "Failed to open sqlite database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close sqlite database: %v", err)
		}
	})

	err = migrate.Run(ctx, db, database.DialectSQLite3, sqlite.Migrations(),
		migrate.CommandUp, logger.NewDiscardLogger())
	require.NoError(t, err, "Failed to run sqlite migrations")

	return db
}
