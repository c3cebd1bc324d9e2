package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/media"
)

// UploadsServer serves locally stored media. It is mounted on a wildcard
// route; the wildcard is the stored file name.
//
//	r.Get("/uploads/*", UploadsServer(localStore, logger))
func UploadsServer(store *media.LocalStorage, logger *zap.SugaredLogger) http.HandlerFunc {
	logger.Infow("serving uploads", "dir", store.BasePath())

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := chi.URLParam(r, "*")

		fullPath, err := store.GetFullPath(relativePath)
		if err != nil {
			logger.Warnw("rejected upload path", "path", r.URL.Path, "error", err)
			http.NotFound(w, r)
			return
		}

		info, err := os.Stat(fullPath)
		if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			logger.Errorw("failed to stat upload", "file", fullPath, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, fullPath)
	}
}
