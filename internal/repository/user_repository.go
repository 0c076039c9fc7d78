package repository

import (
	"errors"
	"fmt"

	"github.com/projectpulse/project-management-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateTenant is returned when creating the tenant fails inside the bootstrap transaction.
	ErrCreateTenant = errors.New("user repository: create tenant failed")
	// ErrCreateUser is returned when creating the user fails inside the bootstrap transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithTenant creates a tenant and its first admin user atomically.
func (r *GormUserRepository) CreateWithTenant(tenant *models.Tenant, user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTenant, err)
		}

		user.TenantID = tenant.ID

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		return nil
	})
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDAndTenant finds a user by the (id, tenant) compound match. A stale
// token whose tenant claim no longer matches the user must not resolve.
func (r *GormUserRepository) FindByIDAndTenant(id, tenantID uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindTenantByCompanyName finds a tenant by company name
func (r *GormUserRepository) FindTenantByCompanyName(name string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Where("company_name = ?", name).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindTenantByID finds a tenant by ID
func (r *GormUserRepository) FindTenantByID(id uint64) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListByTenant lists active users of a tenant
func (r *GormUserRepository) ListByTenant(tenantID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("users.created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
