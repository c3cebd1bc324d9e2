package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/database"
	"github.com/camden-git/traveldiary/database/dbtest"
)

func TestRunMigrations_CreatesSchema(t *testing.T) {
	db := dbtest.New(t)

	for _, table := range []string{"entries", "entry_media"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, database.RunMigrations(context.Background(), db, zap.NewNop().Sugar()))
}

func TestSchema_CascadeDeletesMedia(t *testing.T) {
	db := dbtest.New(t)

	require.NoError(t, db.Exec(
		`INSERT INTO entries (filename, media_type, caption, location_name, category, date) VALUES (?, ?, '', '', ?, ?)`,
		"a.jpg", "photo", "moments", "2026-02-24").Error)
	var id int64
	require.NoError(t, db.Raw(`SELECT id FROM entries`).Scan(&id).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO entry_media (entry_id, filename, media_type, sort_order) VALUES (?, ?, ?, ?), (?, ?, ?, ?)`,
		id, "b.jpg", "photo", 1, id, "c.mp4", "video", 2).Error)

	require.NoError(t, db.Exec(`DELETE FROM entries WHERE id = ?`, id).Error)

	var remaining int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM entry_media`).Scan(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestSchema_RejectsUnknownMediaType(t *testing.T) {
	db := dbtest.New(t)

	err := db.Exec(
		`INSERT INTO entries (filename, media_type, category, date) VALUES (?, ?, ?, ?)`,
		"a.txt", "document", "moments", "2026-02-24").Error
	assert.Error(t, err)
}
