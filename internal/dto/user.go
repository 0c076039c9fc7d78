package dto

import (
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      models.TenantRole `json:"role"`
	IsActive  bool              `json:"is_active"`
	TenantID  uint64            `json:"tenant_id"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		TenantID:  user.TenantID,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of user models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}

// TenantDTO represents a tenant in API responses
type TenantDTO struct {
	ID          uint64    `json:"id"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToTenantDTO converts a tenant model to DTO
func ToTenantDTO(tenant models.Tenant) TenantDTO {
	return TenantDTO{
		ID:          tenant.ID,
		CompanyName: tenant.CompanyName,
		CreatedAt:   tenant.CreatedAt,
	}
}
