package repository

import (
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormRefreshTokenRepository is a GORM implementation of RefreshTokenRepository
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Create persists a new refresh token row
func (r *GormRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindValid finds an unexpired token row by value with its owner loaded
func (r *GormRefreshTokenRepository) FindValid(value string, now time.Time) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Preload("User").
		Where("token = ? AND expires_at > ?", value, now).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByValue removes the row matching value. Deleting an unknown value is
// a no-op, which makes logout idempotent.
func (r *GormRefreshTokenRepository) DeleteByValue(value string) error {
	return r.db.Where("token = ?", value).Delete(&models.RefreshToken{}).Error
}
