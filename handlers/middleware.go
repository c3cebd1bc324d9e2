package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/services"
)

const bearerPrefix = "bearer "

// bearerCredential extracts the secret from an Authorization header. One
// case-insensitive "Bearer " prefix is stripped and the rest is taken
// verbatim, so secrets may contain spaces. A header without the prefix is
// the credential itself, as older admin clients send it.
func bearerCredential(header string) string {
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return header[len(bearerPrefix):]
	}
	return header
}

// RequireAdmin rejects requests that do not carry the admin secret. It runs
// before the handler, so a rejected request never reaches the store.
func RequireAdmin(gate *services.AdminGate, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Configured() {
				logger.Errorw("admin password not configured", "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "Server misconfigured")
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			if err := gate.Check(bearerCredential(header)); err != nil {
				if errors.Is(err, services.ErrUnauthorized) {
					logger.Warnw("rejected admin request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
				}
				writeServiceError(w, logger, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Infow("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
					"remote", r.RemoteAddr,
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
