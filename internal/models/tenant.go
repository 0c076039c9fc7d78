package models

import (
	"time"
)

type Tenant struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	CompanyName string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Users       []User       `gorm:"foreignKey:TenantID" json:"users,omitempty"`
	Projects    []Project    `gorm:"foreignKey:TenantID" json:"projects,omitempty"`
	Invitations []Invitation `gorm:"foreignKey:TenantID" json:"invitations,omitempty"`
}
