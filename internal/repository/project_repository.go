package repository

import (
	"errors"
	"fmt"
	"math"

	"github.com/projectpulse/project-management-api/internal/database"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateProject is returned when creating the project fails inside the creation transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateProjectMember is returned when creating the owner membership fails inside the creation transaction.
	ErrCreateProjectMember = errors.New("project repository: create project member failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates a project and its owner membership atomically.
func (r *GormProjectRepository) CreateWithOwner(project *models.Project, member *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		member.ProjectID = project.ID

		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProjectMember, err)
		}

		return nil
	})
}

// FindByID finds a non-deleted project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Scopes(database.NotDeleted).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves non-deleted projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).
		Scopes(database.TenantScoped(filter.TenantID), database.NotDeleted)

	if filter.ProjectIDs != nil {
		if len(filter.ProjectIDs) == 0 {
			return []models.Project{}, 0, nil
		}
		query = query.Where("id IN ?", filter.ProjectIDs)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// SoftDelete flags a project as deleted
func (r *GormProjectRepository) SoftDelete(id uint64) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

// AddMember adds a membership row
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a membership by (project, user)
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindMemberByID finds a membership row by its primary key
func (r *GormProjectRepository) FindMemberByID(id uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember deletes a membership row
func (r *GormProjectRepository) RemoveMember(id uint64) error {
	return r.db.Delete(&models.ProjectMember{}, id).Error
}

// CountOwners counts owner memberships on a project
func (r *GormProjectRepository) CountOwners(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, models.ProjectRoleOwner).
		Count(&count).Error
	return count, err
}

// ListMembers lists all memberships of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListProjectIDsForUser lists project ids the user has a membership on
func (r *GormProjectRepository) ListProjectIDsForUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// recomputeProjectProgress refreshes the derived progress column from the
// live task counts. Idempotent, safe to re-run redundantly. Runs on the
// handle it is given so task mutations can include it in their transaction.
func recomputeProjectProgress(tx *gorm.DB, projectID uint64) error {
	var total, done int64

	if err := tx.Model(&models.Task{}).
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Count(&total).Error; err != nil {
		return err
	}

	progress := 0
	if total > 0 {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND is_deleted = ? AND status = ?", projectID, false, models.TaskStatusDone).
			Count(&done).Error; err != nil {
			return err
		}
		progress = int(math.Round(float64(done) / float64(total) * 100))
	}

	return tx.Model(&models.Project{}).Where("id = ?", projectID).
		Update("progress", progress).Error
}
