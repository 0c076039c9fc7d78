package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projectpulse/project-management-api/internal/apperrors"
	"github.com/projectpulse/project-management-api/internal/dto"
	"github.com/projectpulse/project-management-api/internal/middleware"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/services"
	"github.com/projectpulse/project-management-api/internal/utils"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// Create creates a project owned by the caller.
func (h *ProjectHandler) Create(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apperrors.InvalidCredentials(c)
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(user, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// List returns the projects visible to the caller.
func (h *ProjectHandler) List(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apperrors.InvalidCredentials(c)
		return
	}

	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.List(user, services.ListProjectsInput{
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListDTO(projects, params, total))
}

// Get returns a single project.
func (h *ProjectHandler) Get(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(user, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// Update modifies a project.
func (h *ProjectHandler) Update(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Update(user, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// Delete soft-deletes a project.
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	if err := h.projectService.SoftDelete(user, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMember grants a tenant user a role on the project.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(user, projectID, services.AddMemberInput{
		UserID: req.UserID,
		Role:   models.ProjectRole(req.Role),
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// RemoveMember deletes a membership row.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	memberID, err := strconv.ParseUint(c.Param("memberId"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.projectService.RemoveMember(user, projectID, memberID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers returns the project's membership list.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(user, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectMemberDTOs(members))
}

// projectRequest extracts the principal and the :id route parameter.
func projectRequest(c *gin.Context) (*models.User, uint64, bool) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apperrors.InvalidCredentials(c)
		return nil, 0, false
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid project ID")
		return nil, 0, false
	}

	return user, projectID, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apperrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectAccessDenied):
		apperrors.Forbidden(c, "You do not have permission for this project")
	case errors.Is(err, services.ErrCannotRemoveLastOwner):
		apperrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrMemberAlreadyExists):
		apperrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrInvalidProjectRole),
		errors.Is(err, services.ErrMemberOutsideTenant):
		apperrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apperrors.NotFound(c, err.Error())
	default:
		apperrors.InternalError(c, "")
	}
}
