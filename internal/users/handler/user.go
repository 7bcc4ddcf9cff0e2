package handler

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/users/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// UserHandler handles user listing endpoints. Account creation happens
// through the login upsert, not here.
type UserHandler struct {
	repo   *repository.UserRepository
	logger *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo *repository.UserRepository, log *logger.Logger) *UserHandler {
	return &UserHandler{
		repo:   repo,
		logger: log,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, users)
}
