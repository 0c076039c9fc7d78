package services

import (
	"errors"
	"fmt"

	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAdminRequired   = errors.New("admin privileges required")
	ErrCannotEditSelf  = errors.New("cannot modify your own account")
	ErrInvalidRole     = errors.New("unrecognized role")
	ErrUserNotInTenant = errors.New("user not found in this tenant")
	ErrAlreadyInactive = errors.New("user is already deactivated")
)

// UserService provides tenant-scoped user administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListTenantUsers returns the active users of the caller's tenant. Admin only.
func (s *UserService) ListTenantUsers(caller *models.User) ([]models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminRequired
	}

	users, err := s.userRepo.ListByTenant(caller.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangeRole updates a tenant user's role. Admin only; self-modification is
// rejected so a tenant cannot accidentally lose its last admin to a typo.
func (s *UserService) ChangeRole(caller *models.User, targetID uint64, role models.TenantRole) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if caller.ID == targetID {
		return nil, ErrCannotEditSelf
	}
	switch role {
	case models.TenantRoleAdmin, models.TenantRoleMember, "editor", "viewer":
	default:
		return nil, ErrInvalidRole
	}

	target, err := s.userRepo.FindByIDAndTenant(targetID, caller.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotInTenant
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	target.Role = role
	if err := s.userRepo.Update(target); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return target, nil
}

// Deactivate disables a tenant user's account. The row stays so historical
// references hold; the inactive flag blocks refresh-token exchange. Admin
// only; self-deactivation is rejected.
func (s *UserService) Deactivate(caller *models.User, targetID uint64) error {
	if !caller.IsAdmin() {
		return ErrAdminRequired
	}
	if caller.ID == targetID {
		return ErrCannotEditSelf
	}

	target, err := s.userRepo.FindByIDAndTenant(targetID, caller.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotInTenant
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !target.IsActive {
		return ErrAlreadyInactive
	}

	target.IsActive = false
	if err := s.userRepo.Update(target); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
