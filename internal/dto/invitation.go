package dto

import (
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token is
// included so the issuing admin can hand the link out through a side
// channel when email delivery is disabled.
type InvitationDTO struct {
	ID        uint64            `json:"id"`
	Token     string            `json:"token"`
	Email     string            `json:"email"`
	Role      models.TenantRole `json:"role"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToInvitationDTO converts an invitation model to DTO
func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:        invitation.ID,
		Token:     invitation.Token,
		Email:     invitation.Email,
		Role:      invitation.Role,
		ExpiresAt: invitation.ExpiresAt,
		CreatedAt: invitation.CreatedAt,
	}
}
