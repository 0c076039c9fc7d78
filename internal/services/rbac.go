package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectAccessDenied = errors.New("insufficient project role")
)

// Role sets ordered most-to-least privileged. Destructive operations demand
// owner; mutations allow editors; reads allow everyone on the project.
var (
	RolesOwner   = []models.ProjectRole{models.ProjectRoleOwner}
	RolesEditors = []models.ProjectRole{models.ProjectRoleOwner, models.ProjectRoleEditor}
	RolesReaders = []models.ProjectRole{models.ProjectRoleOwner, models.ProjectRoleEditor, models.ProjectRoleViewer}
)

// CheckProjectAccess is the authorization gate every project-scoped
// operation passes through. It requires a membership whose role is in
// allowed, except that with adminOverride a tenant admin reaches any project
// of their own tenant through a synthesized membership that is never
// persisted. A project outside the caller's tenant reads as not found.
func CheckProjectAccess(
	projectRepo repository.ProjectRepository,
	user *models.User,
	projectID uint64,
	allowed []models.ProjectRole,
	adminOverride bool,
) (*models.Project, *models.ProjectMember, error) {
	project, err := projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.TenantID != user.TenantID {
		return nil, nil, ErrProjectNotFound
	}

	member, err := projectRepo.FindMember(projectID, user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to find membership: %w", err)
		}

		if adminOverride && user.IsAdmin() {
			return project, &models.ProjectMember{
				ProjectID: projectID,
				UserID:    user.ID,
				Role:      models.ProjectRoleOwner,
				JoinedAt:  time.Now(),
			}, nil
		}

		return nil, nil, ErrProjectAccessDenied
	}

	for _, role := range allowed {
		if member.Role == role {
			return project, member, nil
		}
	}

	return nil, nil, ErrProjectAccessDenied
}
