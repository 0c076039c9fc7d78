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
)

// UserHandler coordinates tenant user administration handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List returns the caller's tenant users. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apperrors.InvalidCredentials(c)
		return
	}

	users, err := h.userService.ListTenantUsers(user)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// ChangeRole updates a tenant user's role. Admin only.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	user, targetID, ok := userRequest(c)
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	target, err := h.userService.ChangeRole(user, targetID, models.TenantRole(req.Role))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*target))
}

// Deactivate disables a tenant user. Admin only.
func (h *UserHandler) Deactivate(c *gin.Context) {
	user, targetID, ok := userRequest(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(user, targetID); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func userRequest(c *gin.Context) (*models.User, uint64, bool) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apperrors.InvalidCredentials(c)
		return nil, 0, false
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid user ID")
		return nil, 0, false
	}

	return user, targetID, true
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAdminRequired),
		errors.Is(err, services.ErrCannotEditSelf):
		apperrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotInTenant):
		apperrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrAlreadyInactive):
		apperrors.BadRequest(c, err.Error())
	default:
		apperrors.InternalError(c, "")
	}
}
