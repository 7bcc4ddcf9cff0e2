package handler

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/auth/session"
	"github.com/craftline/craftline-backend/internal/users/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// AuthHandler handles session endpoints. Me and Logout never require
// an authenticated caller; Login trusts an upstream-verified identity.
type AuthHandler struct {
	users    *repository.UserRepository
	sessions *session.Manager
	logger   *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *repository.UserRepository, sessions *session.Manager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   log,
	}
}

// LoginRequest carries the identity asserted by the upstream provider.
type LoginRequest struct {
	OpenID      string  `json:"open_id" validate:"required"`
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	LoginMethod *string `json:"login_method"`
}

// Login upserts the user and establishes the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	user, err := h.users.Upsert(r.Context(), &repository.UpsertParams{
		OpenID:      req.OpenID,
		Name:        req.Name,
		Email:       req.Email,
		LoginMethod: req.LoginMethod,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	name := ""
	if user.Name != nil {
		name = *user.Name
	}

	token, err := h.sessions.Generate(&session.Identity{
		OpenID: user.OpenID,
		Name:   name,
		Role:   user.Role,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign session token")
		httputil.Error(w, err)
		return
	}

	h.sessions.SetCookie(w, token)
	httputil.JSON(w, http.StatusOK, user)
}

// Me returns the current caller identity, or null when unauthenticated.
// This endpoint never answers 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	openID := httputil.GetOpenID(r.Context())
	if openID == "" {
		httputil.JSON(w, http.StatusOK, nil)
		return
	}

	httputil.JSON(w, http.StatusOK, &session.Identity{
		OpenID: openID,
		Name:   httputil.GetUserName(r.Context()),
		Role:   httputil.GetUserRole(r.Context()),
	})
}

// Logout clears the session cookie and reports success unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	httputil.Ack(w)
}
