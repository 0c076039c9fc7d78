package repository

import (
	"github.com/projectpulse/project-management-api/internal/database"
	"github.com/projectpulse/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and refreshes project progress atomically
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return recomputeProjectProgress(tx, task.ProjectID)
	})
}

// FindByID finds a non-deleted task scoped to a project
func (r *GormTaskRepository) FindByID(id, projectID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.NotDeleted).
		Where("id = ? AND project_id = ?", id, projectID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists non-deleted tasks of a project
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Scopes(database.NotDeleted).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task and refreshes project progress atomically
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		return recomputeProjectProgress(tx, task.ProjectID)
	})
}

// SoftDelete flags a task as deleted and refreshes project progress atomically
func (r *GormTaskRepository) SoftDelete(id, projectID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("id = ? AND project_id = ?", id, projectID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return recomputeProjectProgress(tx, projectID)
	})
}
