package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateInvitedUser is returned when creating the accepting user fails inside the acceptance transaction.
	ErrCreateInvitedUser = errors.New("invitation repository: create user failed")
	// ErrConsumeInvitation is returned when consuming the invitation fails inside the acceptance transaction.
	ErrConsumeInvitation = errors.New("invitation repository: consume invitation failed")
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindPendingByEmail finds an unused, unexpired invitation for a (tenant, email) pair
func (r *GormInvitationRepository) FindPendingByEmail(tenantID uint64, email string, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Where("tenant_id = ? AND email = ? AND is_used = ? AND expires_at > ?",
		tenantID, email, false, now).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByToken finds an unused, unexpired invitation by token
func (r *GormInvitationRepository) FindPendingByToken(token string, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Preload("Tenant").
		Where("token = ? AND is_used = ? AND expires_at > ?", token, false, now).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Accept creates the accepting user and consumes the invitation atomically.
// Either both happen or neither does; a used invitation with no user is an
// invariant violation.
func (r *GormInvitationRepository) Accept(invitation *models.Invitation, user *models.User, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateInvitedUser, err)
		}

		// Guard the update with the unused predicate so a concurrent
		// acceptance of the same token loses the race.
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND is_used = ?", invitation.ID, false).
			Updates(map[string]interface{}{
				"is_used":             true,
				"accepted_at":         now,
				"accepted_by_user_id": user.ID,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrConsumeInvitation, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: already used", ErrConsumeInvitation)
		}

		invitation.IsUsed = true
		invitation.AcceptedAt = &now
		invitation.AcceptedByUserID = &user.ID

		return nil
	})
}
