package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/camden-git/traveldiary/models"
)

// mutableColumns are the only columns UpdateFields may touch.
var mutableColumns = map[string]bool{
	"caption":       true,
	"location_name": true,
	"latitude":      true,
	"longitude":     true,
	"category":      true,
	"date":          true,
}

// EntryFilter narrows List. Zero values mean "no restriction"; From and To
// are inclusive YYYY-MM-DD bounds.
type EntryFilter struct {
	Category string
	From     string
	To       string
}

// predicate builds the WHERE clause for the filter
func (f EntryFilter) predicate() sq.Sqlizer {
	and := sq.And{}
	if f.Category != "" {
		and = append(and, sq.Eq{"category": f.Category})
	}
	if f.From != "" {
		and = append(and, sq.GtOrEq{"date": f.From})
	}
	if f.To != "" {
		and = append(and, sq.LtOrEq{"date": f.To})
	}
	return and
}

// EntryRepository handles database operations for Entry entities
type EntryRepository struct {
	DB *gorm.DB
}

// NewEntryRepository creates a new instance of EntryRepository
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{DB: db}
}

var _ EntryRepositoryInterface = (*EntryRepository)(nil)

func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Media").Create(entry).Error; err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", entry.Filename, err)
		}
		for i := range entry.Media {
			entry.Media[i].EntryID = entry.ID
			if err := tx.Create(&entry.Media[i]).Error; err != nil {
				return fmt.Errorf("failed to insert media %d for entry %d: %w", entry.Media[i].SortOrder, entry.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves an entry with its extra media ordered by sort_order
func (r *EntryRepository) GetByID(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.DB.WithContext(ctx).
		Preload("Media", orderMedia).
		First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	return &entry, nil
}

// List retrieves entries newest first; ties on date go to the latest insert
func (r *EntryRepository) List(ctx context.Context, filter EntryFilter) ([]models.Entry, error) {
	where, args, err := filter.predicate().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entry filter: %w", err)
	}

	var entries []models.Entry
	err = r.DB.WithContext(ctx).
		Preload("Media", orderMedia).
		Where(where, args...).
		Order("date DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	for col := range fields {
		if !mutableColumns[col] {
			return fmt.Errorf("column %q is not updatable", col)
		}
	}

	res := r.DB.WithContext(ctx).Model(&models.Entry{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update entry %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the entry and its media rows. The schema cascades as well;
// deleting explicitly keeps the result independent of the foreign_keys pragma.
func (r *EntryRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&models.EntryMedia{}).Error; err != nil {
			return fmt.Errorf("failed to delete media for entry %d: %w", id, err)
		}
		res := tx.Delete(&models.Entry{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete entry %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func orderMedia(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}
