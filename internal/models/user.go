package models

import (
	"time"
)

type TenantRole string

const (
	TenantRoleAdmin  TenantRole = "admin"
	TenantRoleMember TenantRole = "member"
)

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         TenantRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsActive     bool       `gorm:"not null;default:false" json:"is_active"`
	TenantID     uint64     `gorm:"not null;index" json:"tenant_id"`
	CreatedAt    time.Time  `json:"created_at"`

	// Relations
	Tenant      Tenant          `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Memberships []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user holds the tenant-level admin role.
func (u *User) IsAdmin() bool {
	return u.Role == TenantRoleAdmin
}
