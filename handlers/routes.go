package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/config"
	"github.com/camden-git/traveldiary/media"
	"github.com/camden-git/traveldiary/services"
)

// RouterDeps is everything the HTTP layer needs, built once in main.
type RouterDeps struct {
	Cfg     config.Config
	Entries *services.EntryService
	Gate    *services.AdminGate
	Logger  *zap.SugaredLogger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := []string{"*"}
	if deps.Cfg.FrontendURL != "" {
		allowedOrigins = strings.Split(deps.Cfg.FrontendURL, ",")
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	authHandler := &AuthHandler{Gate: deps.Gate, Logger: deps.Logger}
	entryHandler := &EntryHandler{
		Service:         deps.Entries,
		MediaBaseURL:    deps.Cfg.MediaBaseURL,
		MaxRequestBytes: deps.Cfg.MaxRequestBytes(),
		Logger:          deps.Logger,
	}
	requireAdmin := RequireAdmin(deps.Gate, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth", authHandler.Login)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", entryHandler.ListEntries)
			r.With(requireAdmin).Post("/", entryHandler.CreateEntry)
			r.Route("/{entry_id}", func(r chi.Router) {
				r.Get("/", entryHandler.GetEntry)
				r.With(requireAdmin).Put("/", entryHandler.UpdateEntry)
				r.With(requireAdmin).Delete("/", entryHandler.DeleteEntry)
			})
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
	})

	if local, ok := deps.Entries.Store().(*media.LocalStorage); ok {
		mount := uploadsMountPath(deps.Cfg.MediaBaseURL)
		r.Get(mount+"/*", UploadsServer(local, deps.Logger))
		deps.Logger.Infow("registered uploads server", "route", mount+"/*")
	}

	return r
}

// uploadsMountPath serves under MEDIA_BASE_URL when it is a path on this
// server, otherwise under /uploads.
func uploadsMountPath(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasPrefix(base, "/") && base != "" {
		return base
	}
	return "/uploads"
}
