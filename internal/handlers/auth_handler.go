package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jonnyb/group-order/internal/auth"
	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/models"
	"github.com/jonnyb/group-order/internal/session"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	creds      *auth.Credentials
	jwtManager *auth.JWTManager
	sessions   *session.Manager
	log        *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(creds *auth.Credentials, jwtManager *auth.JWTManager, sessions *session.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		creds:      creds,
		jwtManager: jwtManager,
		sessions:   sessions,
		log:        log,
	}
}

// Login handles POST /api/login. The code is checked by exact match
// against the fixed user table; on success a session token is issued and
// the server-side session is (re)initialized.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode login request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.creds.Authenticate(req.Name, req.Code); err != nil {
		if errors.Is(err, auth.ErrWrongCode) {
			h.log.Info("login rejected", "user", req.Name)
			WriteError(w, http.StatusUnauthorized, "Wrong code", h.log)
			return
		}
		h.log.Error("login failed", "user", req.Name, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	token, err := h.jwtManager.Generate(req.Name)
	if err != nil {
		h.log.Error("failed to generate session token", "user", req.Name, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.sessions.Start(req.Name)
	h.log.Info("user logged in", "user", req.Name)

	WriteJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: req.Name}, h.log)
}

// ListUsers handles GET /api/users. Returns the known user names for
// the login form's name selector. Codes are never exposed.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	names := h.creds.Users()
	sort.Strings(names)
	WriteJSON(w, http.StatusOK, names, h.log)
}

// Logout handles POST /api/logout. Server-side session state is cleared
// wholesale; the token itself simply stops being used by the client.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	h.sessions.End(user)
	h.log.Info("user logged out", "user", user)

	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"}, h.log)
}
