package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/services"
)

type AuthHandler struct {
	Gate   *services.AdminGate
	Logger *zap.SugaredLogger
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Login lets the admin UI check a password before it starts sending it
// with mutating requests.
func (ah *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Error: "Invalid request body"})
		return
	}

	err := ah.Gate.Check(req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{Success: true})
	case errors.Is(err, services.ErrMisconfigured):
		ah.Logger.Errorw("login attempted without admin password configured")
		writeJSON(w, http.StatusInternalServerError, loginResponse{Error: "Server misconfigured"})
	default:
		ah.Logger.Warnw("failed admin login", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, loginResponse{Error: "Invalid password"})
	}
}
