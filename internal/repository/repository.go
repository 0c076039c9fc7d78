package repository

import (
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
)

// UserRepository defines the interface for user and tenant data access
type UserRepository interface {
	// CreateWithTenant creates a tenant and its first admin user within a
	// single transaction.
	CreateWithTenant(tenant *models.Tenant, user *models.User) error

	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDAndTenant finds a user by the (id, tenant) compound match
	FindByIDAndTenant(id, tenantID uint64) (*models.User, error)

	// FindByEmail finds a user by email. Emails are globally unique.
	FindByEmail(email string) (*models.User, error)

	// FindTenantByCompanyName finds a tenant by its unique company name
	FindTenantByCompanyName(name string) (*models.Tenant, error)

	// FindTenantByID finds a tenant by ID
	FindTenantByID(id uint64) (*models.Tenant, error)

	// ListByTenant lists active users of a tenant
	ListByTenant(tenantID uint64) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	TenantID uint64
	// ProjectIDs restricts the listing to explicit memberships. Nil means
	// no restriction (tenant-admin view).
	ProjectIDs []uint64
	Search     string
	Page       int
	PageSize   int
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership within a
	// single transaction. A project with zero memberships is never
	// observable.
	CreateWithOwner(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a non-deleted project by ID
	FindByID(id uint64) (*models.Project, error)

	// List retrieves non-deleted projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// SoftDelete flags a project as deleted
	SoftDelete(id uint64) error

	// AddMember adds a membership row
	AddMember(member *models.ProjectMember) error

	// FindMember finds a membership by (project, user)
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// FindMemberByID finds a membership row by its primary key
	FindMemberByID(id uint64) (*models.ProjectMember, error)

	// RemoveMember deletes a membership row
	RemoveMember(id uint64) error

	// CountOwners counts owner memberships on a project
	CountOwners(projectID uint64) (int64, error)

	// ListMembers lists all memberships of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// ListProjectIDsForUser lists project ids the user has a membership on
	ListProjectIDsForUser(userID uint64) ([]uint64, error)
}

// TaskRepository defines the interface for task data access. Every mutation
// recomputes the parent project's progress in the same transaction.
type TaskRepository interface {
	// Create creates a task and refreshes project progress
	Create(task *models.Task) error

	// FindByID finds a non-deleted task scoped to a project
	FindByID(id, projectID uint64) (*models.Task, error)

	// ListByProject lists non-deleted tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update updates a task and refreshes project progress
	Update(task *models.Task) error

	// SoftDelete flags a task as deleted and refreshes project progress
	SoftDelete(id, projectID uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindPendingByEmail finds an unused, unexpired invitation for a
	// (tenant, email) pair
	FindPendingByEmail(tenantID uint64, email string, now time.Time) (*models.Invitation, error)

	// FindPendingByToken finds an unused, unexpired invitation by token
	FindPendingByToken(token string, now time.Time) (*models.Invitation, error)

	// Accept creates the accepting user and consumes the invitation within
	// a single transaction.
	Accept(invitation *models.Invitation, user *models.User, now time.Time) error
}

// RefreshTokenRepository defines the interface for refresh-token persistence
type RefreshTokenRepository interface {
	// Create persists a new refresh token row
	Create(token *models.RefreshToken) error

	// FindValid finds an unexpired token row by value with its owner loaded
	FindValid(value string, now time.Time) (*models.RefreshToken, error)

	// DeleteByValue removes the row matching value; missing rows are not an
	// error.
	DeleteByValue(value string) error
}
