package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/media"
	"github.com/camden-git/traveldiary/models"
	"github.com/camden-git/traveldiary/repository"
	"github.com/camden-git/traveldiary/utils"
)

// CreateInput is one upload request: the files in upload order plus metadata.
// Empty strings and nil coordinates mean "not supplied".
type CreateInput struct {
	Files        []media.Upload
	Caption      string
	LocationName string
	Latitude     *float64
	Longitude    *float64
	Category     string
	Date         string
}

// CoordPatch distinguishes an omitted coordinate (Set false) from a cleared
// one (Set true, Value nil).
type CoordPatch struct {
	Set   bool
	Value *float64
}

// EntryPatch holds the fields an update may change. Nil or empty strings keep
// the stored value.
type EntryPatch struct {
	Caption      *string
	LocationName *string
	Category     *string
	Date         *string
	Latitude     CoordPatch
	Longitude    CoordPatch
}

// EntryServiceConfig holds the limits and switches the service enforces
type EntryServiceConfig struct {
	MaxFiles       int
	MaxUploadBytes int64
	ExifAutofill   bool
}

// EntryService validates uploads, writes them to the configured store and
// keeps the entries and entry_media tables in step.
type EntryService struct {
	repo   repository.EntryRepositoryInterface
	store  media.Store
	cfg    EntryServiceConfig
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewEntryService(repo repository.EntryRepositoryInterface, store media.Store, cfg EntryServiceConfig, logger *zap.SugaredLogger) *EntryService {
	return &EntryService{
		repo:   repo,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Store exposes the backend chosen at startup.
func (s *EntryService) Store() media.Store {
	return s.store
}

// Create stores every file, then inserts the entry and its media rows in one
// transaction. Nothing is written if validation fails.
func (s *EntryService) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	if err := s.validateFiles(in.Files); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	} else if !models.IsValidCategory(category) {
		return nil, invalid("invalid category %q", category)
	}

	date := strings.TrimSpace(in.Date)
	if date != "" && !isValidDate(date) {
		return nil, invalid("invalid date %q, expected YYYY-MM-DD", date)
	}

	primaryType := media.Classify(in.Files[0].Name)
	if s.cfg.ExifAutofill && primaryType == media.TypePhoto && (date == "" || in.Latitude == nil || in.Longitude == nil) {
		s.autofillFromExif(in.Files[0], &in, &date)
	}
	if date == "" {
		date = s.now().UTC().Format(models.DateLayout)
	}

	entry := Entry{
		Caption:      in.Caption,
		LocationName: in.LocationName,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Category:     category,
		Date:         date,
		Media:        make([]media.Item, 0, len(in.Files)),
	}

	for i, upload := range in.Files {
		upload.Type = media.Classify(upload.Name)
		ref, err := s.store.Save(ctx, upload)
		if err != nil {
			s.discard(entry.Media)
			s.logger.Errorw("failed to store upload", "file", upload.Name, "backend", s.store.Name(), "error", err)
			return nil, fmt.Errorf("%w: storing %s: %v", ErrStorage, upload.Name, err)
		}
		entry.Media = append(entry.Media, media.Item{Ref: ref, Type: upload.Type, SortOrder: i})
	}

	row := entry.toModel()
	if err := s.repo.Create(ctx, row); err != nil {
		s.discard(entry.Media)
		s.logger.Errorw("failed to insert entry", "primary", row.Filename, "error", err)
		return nil, fmt.Errorf("%w: saving entry: %v", ErrStorage, err)
	}

	created := entryFromModel(row)
	s.logger.Infow("created entry", "id", created.ID, "media", len(created.Media), "category", created.Category, "date", created.Date)
	return &created, nil
}

func (s *EntryService) validateFiles(files []media.Upload) error {
	if len(files) == 0 {
		return invalid("no file uploaded")
	}
	if len(files) > s.cfg.MaxFiles {
		return invalid("too many files: %d, at most %d per entry", len(files), s.cfg.MaxFiles)
	}
	for _, f := range files {
		if !media.IsAllowed(f.Name) {
			return invalid("file type not allowed: %s", f.Name)
		}
		if s.cfg.MaxUploadBytes > 0 && f.Size > s.cfg.MaxUploadBytes {
			return invalid("file too large: %s", f.Name)
		}
		if f.Body == nil {
			return invalid("empty upload: %s", f.Name)
		}
	}
	return nil
}

// autofillFromExif fills omitted coordinates and date from the primary photo.
// It needs a seekable body so the bytes can still be stored afterwards.
func (s *EntryService) autofillFromExif(primary media.Upload, in *CreateInput, date *string) {
	rs, ok := primary.Body.(io.ReadSeeker)
	if !ok {
		return
	}
	meta, err := utils.ReadPhotoMetadata(rs)
	if _, seekErr := rs.Seek(0, io.SeekStart); seekErr != nil {
		s.logger.Warnw("failed to rewind upload after exif read", "file", primary.Name, "error", seekErr)
		return
	}
	if err != nil {
		s.logger.Debugw("no exif metadata", "file", primary.Name, "error", err)
		return
	}

	if in.Latitude == nil && in.Longitude == nil && meta.Latitude != nil {
		in.Latitude, in.Longitude = meta.Latitude, meta.Longitude
	}
	if *date == "" && meta.TakenAt != nil {
		*date = meta.TakenAt.Format(models.DateLayout)
	}
}

// discard removes files already stored for a failed request when the
// backend supports it.
func (s *EntryService) discard(items []media.Item) {
	remover, ok := s.store.(media.Remover)
	if !ok {
		return
	}
	for _, item := range items {
		if err := remover.Remove(context.Background(), item.Ref); err != nil {
			s.logger.Warnw("failed to clean up stored file", "file", item.Ref.Value, "error", err)
		}
	}
}

// List returns entries newest first, each with its ordered media.
func (s *EntryService) List(ctx context.Context, filter repository.EntryFilter) ([]Entry, error) {
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return nil, invalid("invalid category %q", filter.Category)
	}
	for _, d := range []string{filter.From, filter.To} {
		if d != "" && !isValidDate(d) {
			return nil, invalid("invalid date %q, expected YYYY-MM-DD", d)
		}
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, entryFromModel(&rows[i]))
	}
	return entries, nil
}

func (s *EntryService) Get(ctx context.Context, id uint) (*Entry, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	entry := entryFromModel(row)
	return &entry, nil
}

// Update changes metadata only; the media list is never touched.
func (s *EntryService) Update(ctx context.Context, id uint, patch EntryPatch) (*Entry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, mapRepoError(err)
	}

	fields := map[string]any{}
	if v, ok := nonEmpty(patch.Caption); ok {
		fields["caption"] = v
	}
	if v, ok := nonEmpty(patch.LocationName); ok {
		fields["location_name"] = v
	}
	if v, ok := nonEmpty(patch.Category); ok {
		v = strings.TrimSpace(v)
		if !models.IsValidCategory(v) {
			return nil, invalid("invalid category %q", v)
		}
		fields["category"] = v
	}
	if v, ok := nonEmpty(patch.Date); ok {
		v = strings.TrimSpace(v)
		if !isValidDate(v) {
			return nil, invalid("invalid date %q, expected YYYY-MM-DD", v)
		}
		fields["date"] = v
	}
	if patch.Latitude.Set {
		fields["latitude"] = patch.Latitude.Value
	}
	if patch.Longitude.Set {
		fields["longitude"] = patch.Longitude.Value
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, mapRepoError(err)
	}
	if len(fields) > 0 {
		s.logger.Infow("updated entry", "id", id, "fields", len(fields))
	}
	return s.Get(ctx, id)
}

// Delete removes the rows, then the local files. Missing files are ignored
// and removal failures are only logged.
func (s *EntryService) Delete(ctx context.Context, id uint) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	entry := entryFromModel(row)

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	if remover, ok := s.store.(media.Remover); ok {
		for _, item := range entry.Media {
			if item.Ref.Kind != media.RefLocal {
				continue
			}
			if err := remover.Remove(ctx, item.Ref); err != nil {
				s.logger.Warnw("failed to remove media file", "entry", id, "file", item.Ref.Value, "error", err)
			}
		}
	}

	s.logger.Infow("deleted entry", "id", id, "media", len(entry.Media))
	return nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// nonEmpty reports whether a patch string should replace the stored value.
// Blank means keep; otherwise the value is returned as sent.
func nonEmpty(v *string) (string, bool) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", false
	}
	return *v, true
}

func isValidDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
