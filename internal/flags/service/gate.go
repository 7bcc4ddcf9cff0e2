package service

import (
	"context"

	"github.com/craftline/craftline-backend/internal/flags/repository"
)

// FlagEnabled decides whether a flag is on for the given caller role.
// False when the flag is absent or its enabled bit is 0. False when
// the flag requires the admin role and the caller is not an admin.
// True otherwise.
func FlagEnabled(flag *repository.FeatureFlag, role string) bool {
	if flag == nil || flag.Enabled == 0 {
		return false
	}
	if flag.RequiredRole == repository.RoleAdmin && role != repository.RoleAdmin {
		return false
	}
	return true
}

// GateService answers flag enablement checks for the client UI.
type GateService struct {
	repo *repository.FlagRepository
}

// NewGateService creates a new gate service
func NewGateService(repo *repository.FlagRepository) *GateService {
	return &GateService{repo: repo}
}

// IsEnabled looks up the flag by key and applies the gate predicate.
func (s *GateService) IsEnabled(ctx context.Context, key, role string) (bool, error) {
	flag, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return false, err
	}
	return FlagEnabled(flag, role), nil
}
