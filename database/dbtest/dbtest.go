// Package dbtest opens throwaway, fully migrated SQLite databases for tests
// using the pure-Go modernc driver.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/camden-git/traveldiary/database"
)

// New returns a migrated database living in t.TempDir().
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "diary.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	logger := zap.NewNop().Sugar()

	db, err := database.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, logger)
	require.NoError(t, err, "open sqlite (modernc)")
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.RunMigrations(context.Background(), db, logger), "migrate")
	return db
}
