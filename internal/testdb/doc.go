// Package testdb provides database helpers for tests.
//
// SQLite helpers create a fresh, migrated database file per test and need no
// external services. PostgreSQL helpers read DATABASE_URL (or
// REMINDER_TEST_DB_URL) and skip the calling test when neither is set.
//
// PostgreSQL tests use transaction isolation: each test body runs inside a
// transaction that is rolled back when it returns.
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			s := postgres.NewPostgresReminderStore(tx, nil)
//			// ...
//		})
//	}
package testdb
