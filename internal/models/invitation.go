package models

import (
	"time"
)

type Invitation struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Token            string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	Email            string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Role             TenantRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	TenantID         uint64     `gorm:"not null;index" json:"tenant_id"`
	InvitedByUserID  uint64     `gorm:"not null;index" json:"invited_by_user_id"`
	IsUsed           bool       `gorm:"not null;default:false;index" json:"is_used"`
	ExpiresAt        time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	AcceptedByUserID *uint64    `json:"accepted_by_user_id,omitempty"`

	// Relations
	Tenant    Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	InvitedBy User   `gorm:"foreignKey:InvitedByUserID" json:"invited_by,omitempty"`
}

// Pending reports whether the invitation is still consumable: unused and
// unexpired. Expiry is a derived state, never stored.
func (i *Invitation) Pending(now time.Time) bool {
	return !i.IsUsed && i.ExpiresAt.After(now)
}
