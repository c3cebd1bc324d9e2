package repository

import (
	"context"
	"errors"

	"github.com/camden-git/traveldiary/models"
)

// ErrNotFound is returned when no entry matches the requested id.
var ErrNotFound = errors.New("entry not found")

// EntryRepositoryInterface defines the methods for diary entry data operations
type EntryRepositoryInterface interface {
	// Create inserts the entry and all of entry.Media in one transaction,
	// assigning IDs in place.
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id uint) (*models.Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]models.Entry, error)
	// UpdateFields sets mutable columns only; unknown or immutable keys are rejected.
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
