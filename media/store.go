package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Store defines where uploaded media bytes land
type Store interface {
	// Save writes the upload under a freshly generated name and returns its reference
	Save(ctx context.Context, upload Upload) (Ref, error)
	// Kind reports the kind of references this store produces
	Kind() RefKind
	// Name identifies the backend in logs
	Name() string
}

// Remover is implemented by stores that delete their own objects. Remote
// stores do not implement it; their object lifecycle is managed elsewhere.
type Remover interface {
	Remove(ctx context.Context, ref Ref) error
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to the uploads directory
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string, logger *zap.SugaredLogger) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	logger.Infow("initialized local media storage", "path", absBasePath)
	return &LocalStorage{
		basePath: absBasePath,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (ls *LocalStorage) Kind() RefKind { return RefLocal }

func (ls *LocalStorage) Name() string { return "local" }

// BasePath is the directory files are written to and served from.
func (ls *LocalStorage) BasePath() string { return ls.basePath }

// Save streams the upload to a temp file and renames it into place so a
// half-written file is never visible under its final name.
func (ls *LocalStorage) Save(ctx context.Context, upload Upload) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, err
	}

	finalFilename := localFilename(ls.now(), upload.Name)
	fullSavePath, err := ls.GetFullPath(finalFilename)
	if err != nil {
		return Ref{}, err
	}

	tmpPath := fullSavePath + ".tmp"
	outFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to create destination file '%s': %w", tmpPath, err)
	}

	written, copyErr := io.Copy(outFile, upload.Body)
	closeErr := outFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("failed to write data to '%s': %w", tmpPath, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("failed to flush '%s': %w", tmpPath, closeErr)
	}

	if err := os.Rename(tmpPath, fullSavePath); err != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("failed to move upload into place '%s': %w", fullSavePath, err)
	}

	ls.logger.Infow("saved media", "file", finalFilename, "original", upload.Name, "bytes", written)
	return Ref{Kind: RefLocal, Value: finalFilename}, nil
}

// Remove deletes a stored file; a file that is already gone is not an error
func (ls *LocalStorage) Remove(ctx context.Context, ref Ref) error {
	if ref.Kind != RefLocal {
		return fmt.Errorf("cannot remove %s reference from local storage", ref.Kind)
	}

	fullPath, err := ls.GetFullPath(ref.Value)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete media '%s': %w", ref.Value, err)
	}
	if err == nil {
		ls.logger.Infow("deleted media", "file", ref.Value)
	}
	return nil
}

// GetFullPath calculates the absolute path and performs security check
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	if relativePath == "" {
		return "", fmt.Errorf("empty media path")
	}
	fullPath := filepath.Join(ls.basePath, filepath.Clean(filepath.FromSlash(relativePath)))

	rel, err := filepath.Rel(ls.basePath, fullPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}
	return fullPath, nil
}
