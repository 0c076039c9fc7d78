package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidProjectName    = errors.New("project name cannot be empty")
	ErrInvalidProjectRole    = errors.New("unrecognized project role")
	ErrMemberNotFound        = errors.New("project member not found")
	ErrMemberAlreadyExists   = errors.New("user is already a member of this project")
	ErrMemberOutsideTenant   = errors.New("user does not belong to the project's tenant")
	ErrCannotRemoveLastOwner = errors.New("cannot remove the last owner of a project")
)

// ProjectService provides business logic for projects and their memberships.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// Create creates a project in the caller's tenant and makes the caller its
// owner, atomically.
func (s *ProjectService) Create(owner *models.User, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		TenantID:    owner.TenantID,
	}
	member := &models.ProjectMember{
		UserID:   owner.ID,
		Role:     models.ProjectRoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithOwner(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsInput represents listing parameters.
type ListProjectsInput struct {
	Search   string
	Page     int
	PageSize int
}

// List returns the projects visible to the user. Tenant admins see every
// project of their tenant; everyone else sees only projects they hold a
// membership on.
func (s *ProjectService) List(user *models.User, input ListProjectsInput) ([]models.Project, int64, error) {
	filter := repository.ProjectFilter{
		TenantID: user.TenantID,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if !user.IsAdmin() {
		ids, err := s.projectRepo.ListProjectIDsForUser(user.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list memberships: %w", err)
		}
		if ids == nil {
			ids = []uint64{}
		}
		filter.ProjectIDs = ids
	}

	projects, total, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Get returns a project the user can read.
func (s *ProjectService) Get(user *models.User, projectID uint64) (*models.Project, error) {
	project, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesReaders, true)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProjectInput represents updatable project fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// Update modifies a project. Requires an editor-or-better membership.
func (s *ProjectService) Update(user *models.User, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesEditors, true)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// SoftDelete flags a project as deleted. Requires owner.
func (s *ProjectService) SoftDelete(user *models.User, projectID uint64) error {
	project, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesOwner, true)
	if err != nil {
		return err
	}

	if err := s.projectRepo.SoftDelete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMemberInput represents parameters to add a project member.
type AddMemberInput struct {
	UserID uint64
	Role   models.ProjectRole
}

// AddMember grants a tenant user a role on the project. Requires owner.
func (s *ProjectService) AddMember(caller *models.User, projectID uint64, input AddMemberInput) (*models.ProjectMember, error) {
	project, _, err := CheckProjectAccess(s.projectRepo, caller, projectID, RolesOwner, true)
	if err != nil {
		return nil, err
	}

	switch input.Role {
	case models.ProjectRoleOwner, models.ProjectRoleEditor, models.ProjectRoleViewer:
	default:
		return nil, ErrInvalidProjectRole
	}

	target, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if target.TenantID != project.TenantID {
		return nil, ErrMemberOutsideTenant
	}

	if _, err := s.projectRepo.FindMember(projectID, target.ID); err == nil {
		return nil, ErrMemberAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    target.ID,
		Role:      input.Role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *target
	return member, nil
}

// RemoveMember removes a membership row. Requires owner. A project always
// keeps at least one owner membership; removing the last one fails and
// leaves the membership set unchanged.
func (s *ProjectService) RemoveMember(caller *models.User, projectID, memberID uint64) error {
	if _, _, err := CheckProjectAccess(s.projectRepo, caller, projectID, RolesOwner, true); err != nil {
		return err
	}

	member, err := s.projectRepo.FindMemberByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member.ProjectID != projectID {
		return ErrMemberNotFound
	}

	if member.Role == models.ProjectRoleOwner {
		owners, err := s.projectRepo.CountOwners(projectID)
		if err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}
		if owners <= 1 {
			return ErrCannotRemoveLastOwner
		}
	}

	if err := s.projectRepo.RemoveMember(member.ID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ListMembers returns the project's membership list for a reader.
func (s *ProjectService) ListMembers(user *models.User, projectID uint64) ([]models.ProjectMember, error) {
	if _, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesReaders, true); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
