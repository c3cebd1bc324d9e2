package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/services"
)

// APIError is the error body returned by every endpoint.
type APIError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIError{Error: msg})
}

// writeServiceError maps service sentinels to HTTP statuses. Validation
// messages go to the client as-is; anything unexpected is logged and hidden.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Entry not found")
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrMisconfigured):
		logger.Errorw("server misconfigured", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Server misconfigured")
	case errors.Is(err, services.ErrStorage):
		logger.Errorw("storage failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
	default:
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
