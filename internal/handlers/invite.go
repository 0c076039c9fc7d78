package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectpulse/project-management-api/internal/apperrors"
	"github.com/projectpulse/project-management-api/internal/dto"
	"github.com/projectpulse/project-management-api/internal/middleware"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/services"
)

// InviteHandler coordinates invitation HTTP handlers.
type InviteHandler struct {
	inviteService *services.InvitationService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService *services.InvitationService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// Create issues an invitation. Admin only.
func (h *InviteHandler) Create(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apperrors.InvalidCredentials(c)
		return
	}

	type CreateInviteRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.inviteService.Create(user, services.CreateInvitationInput{
		Email: req.Email,
		Role:  models.TenantRole(req.Role),
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation))
}

// Accept consumes an invitation token and logs the new user in.
func (h *InviteHandler) Accept(c *gin.Context) {
	type AcceptInviteRequest struct {
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := h.inviteService.Accept(services.AcceptInvitationInput{
		Token:    c.Param("token"),
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.LoginResponse{
		User: dto.ToUserDTO(*user),
		TokenResponse: dto.TokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "bearer",
		},
	})
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotAdmin):
		apperrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInviteeAlreadyUser),
		errors.Is(err, services.ErrInvitationEmailPending):
		apperrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteRole),
		errors.Is(err, services.ErrInvitationInvalid),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrPasswordTooShort):
		apperrors.BadRequest(c, err.Error())
	default:
		apperrors.InternalError(c, "")
	}
}
