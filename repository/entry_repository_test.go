package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/traveldiary/database/dbtest"
	"github.com/camden-git/traveldiary/models"
	"github.com/camden-git/traveldiary/repository"
)

func newRepo(t *testing.T) *repository.EntryRepository {
	t.Helper()
	return repository.NewEntryRepository(dbtest.New(t))
}

func ptr(f float64) *float64 { return &f }

func mustCreate(t *testing.T, r *repository.EntryRepository, e *models.Entry) *models.Entry {
	t.Helper()
	if e.Category == "" {
		e.Category = models.DefaultCategory
	}
	if e.MediaType == "" {
		e.MediaType = "photo"
	}
	require.NoError(t, r.Create(context.Background(), e))
	return e
}

func TestEntryRepository_CreateAndGet(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	e := mustCreate(t, r, &models.Entry{
		Filename:     "1700000000000-a.jpg",
		MediaType:    "photo",
		Caption:      "whale sharks",
		LocationName: "Churaumi Aquarium",
		Latitude:     ptr(26.6938),
		Longitude:    ptr(127.8777),
		Category:     models.CategoryScenery,
		Date:         "2026-02-24",
		Media: []models.EntryMedia{
			{Filename: "b.mp4", MediaType: "video", SortOrder: 1},
			{Filename: "c.png", MediaType: "photo", SortOrder: 2},
		},
	})
	require.NotZero(t, e.ID)

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "whale sharks", got.Caption)
	assert.Equal(t, "Churaumi Aquarium", got.LocationName)
	assert.InDelta(t, 26.6938, *got.Latitude, 1e-9)
	assert.Equal(t, models.CategoryScenery, got.Category)
	require.Len(t, got.Media, 2)
	assert.Equal(t, "b.mp4", got.Media[0].Filename)
	assert.Equal(t, 1, got.Media[0].SortOrder)
	assert.Equal(t, "c.png", got.Media[1].Filename)
	assert.Equal(t, e.ID, got.Media[1].EntryID)
}

func TestEntryRepository_CreateIsAtomic(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	// duplicate sort_order violates the unique index, so nothing may be kept
	err := r.Create(ctx, &models.Entry{
		Filename: "a.jpg", MediaType: "photo", Category: "moments", Date: "2026-02-24",
		Media: []models.EntryMedia{
			{Filename: "b.jpg", MediaType: "photo", SortOrder: 1},
			{Filename: "c.jpg", MediaType: "photo", SortOrder: 1},
		},
	})
	require.Error(t, err)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEntryRepository_GetMissing(t *testing.T) {
	r := newRepo(t)
	_, err := r.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEntryRepository_ListOrder(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	first := mustCreate(t, r, &models.Entry{Filename: "24.png", Date: "2026-02-24"})
	mustCreate(t, r, &models.Entry{Filename: "26.png", Date: "2026-02-26"})
	mustCreate(t, r, &models.Entry{Filename: "25.png", Date: "2026-02-25"})
	sameDay := mustCreate(t, r, &models.Entry{Filename: "24b.png", Date: "2026-02-24"})

	entries, err := r.List(ctx, repository.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var names []string
	for _, e := range entries {
		names = append(names, e.Filename)
	}
	assert.Equal(t, []string{"26.png", "25.png", "24b.png", "24.png"}, names)
	assert.Greater(t, sameDay.ID, first.ID)
}

func TestEntryRepository_ListFilter(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	mustCreate(t, r, &models.Entry{Filename: "a.png", Category: models.CategoryFood, Date: "2026-02-24"})
	mustCreate(t, r, &models.Entry{Filename: "b.png", Category: models.CategoryScenery, Date: "2026-02-25"})
	mustCreate(t, r, &models.Entry{Filename: "c.png", Category: models.CategoryFood, Date: "2026-02-26"})

	food, err := r.List(ctx, repository.EntryFilter{Category: models.CategoryFood})
	require.NoError(t, err)
	require.Len(t, food, 2)
	assert.Equal(t, "c.png", food[0].Filename)

	window, err := r.List(ctx, repository.EntryFilter{From: "2026-02-25", To: "2026-02-25"})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "b.png", window[0].Filename)
}

func TestEntryRepository_UpdateFields(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	e := mustCreate(t, r, &models.Entry{Filename: "a.png", Latitude: ptr(1), Longitude: ptr(2), Date: "2026-02-24"})

	require.NoError(t, r.UpdateFields(ctx, e.ID, map[string]any{
		"caption":  "updated",
		"latitude": nil,
	}))

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Caption)
	assert.Nil(t, got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.InDelta(t, 2.0, *got.Longitude, 1e-9)
	assert.Equal(t, "a.png", got.Filename)
}

func TestEntryRepository_UpdateRejectsImmutableColumns(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	e := mustCreate(t, r, &models.Entry{Filename: "a.png", Date: "2026-02-24"})

	err := r.UpdateFields(ctx, e.ID, map[string]any{"filename": "evil.png"})
	require.Error(t, err)

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", got.Filename)
}

func TestEntryRepository_UpdateMissing(t *testing.T) {
	r := newRepo(t)
	err := r.UpdateFields(context.Background(), 9, map[string]any{"caption": "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEntryRepository_Delete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	e := mustCreate(t, r, &models.Entry{
		Filename: "a.png", Date: "2026-02-24",
		Media: []models.EntryMedia{{Filename: "b.png", MediaType: "photo", SortOrder: 1}},
	})
	keep := mustCreate(t, r, &models.Entry{
		Filename: "k.png", Date: "2026-02-24",
		Media: []models.EntryMedia{{Filename: "k2.png", MediaType: "photo", SortOrder: 1}},
	})

	require.NoError(t, r.Delete(ctx, e.ID))
	_, err := r.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var orphans int64
	require.NoError(t, r.DB.Model(&models.EntryMedia{}).Where("entry_id = ?", e.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)

	kept, err := r.GetByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Media, 1)

	assert.ErrorIs(t, r.Delete(ctx, e.ID), repository.ErrNotFound)
}
