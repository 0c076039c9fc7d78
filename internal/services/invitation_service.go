package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/projectpulse/project-management-api/internal/auth"
	"github.com/projectpulse/project-management-api/internal/logger"
	"github.com/projectpulse/project-management-api/internal/mailer"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvitationTTL is the fixed validity window of an invitation.
const InvitationTTL = 7 * 24 * time.Hour

var (
	ErrNotAdmin               = errors.New("only admins can invite users")
	ErrInvalidInviteRole      = errors.New("unrecognized invitation role")
	ErrInviteeAlreadyUser     = errors.New("user with this email already exists")
	ErrInvitationEmailPending = errors.New("an active invitation already exists for this email")
	ErrInvitationInvalid      = errors.New("invalid or expired invitation")
)

// Invited users may carry editor/viewer as their tenant role in addition to
// admin/member; project roles are assigned separately per membership.
var validInviteRoles = map[models.TenantRole]bool{
	models.TenantRoleAdmin:  true,
	models.TenantRoleMember: true,
	"editor":                true,
	"viewer":                true,
}

// InvitationService manages the single-use tenant-join token lifecycle.
type InvitationService struct {
	inviteRepo repository.InvitationRepository
	userRepo   repository.UserRepository
	auth       *AuthService
	mail       mailer.Mailer
	linkBase   string
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	inviteRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	authService *AuthService,
	mail mailer.Mailer,
	linkBase string,
) *InvitationService {
	return &InvitationService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		auth:       authService,
		mail:       mail,
		linkBase:   linkBase,
	}
}

// CreateInvitationInput represents parameters to invite a user.
type CreateInvitationInput struct {
	Email string
	Role  models.TenantRole
}

// Create issues a single-use invitation for an email address to join the
// issuer's tenant. The notification email is fire-and-forget: a delivery
// failure is logged, never surfaced.
func (s *InvitationService) Create(issuer *models.User, input CreateInvitationInput) (*models.Invitation, error) {
	if !issuer.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if !validInviteRoles[input.Role] {
		return nil, ErrInvalidInviteRole
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrInviteeAlreadyUser
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	now := time.Now()
	if _, err := s.inviteRepo.FindPendingByEmail(issuer.TenantID, email, now); err == nil {
		return nil, ErrInvitationEmailPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}

	invitation := &models.Invitation{
		Token:           uuid.NewString(),
		Email:           email,
		Role:            input.Role,
		TenantID:        issuer.TenantID,
		InvitedByUserID: issuer.ID,
		ExpiresAt:       now.Add(InvitationTTL),
	}
	if err := s.inviteRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	go s.notify(invitation, issuer)

	return invitation, nil
}

func (s *InvitationService) notify(invitation *models.Invitation, issuer *models.User) {
	link := fmt.Sprintf("%s?token=%s", s.linkBase, invitation.Token)
	companyName := invitation.Tenant.CompanyName
	if companyName == "" {
		if tenant, err := s.userRepo.FindTenantByID(invitation.TenantID); err == nil {
			companyName = tenant.CompanyName
		}
	}
	if err := s.mail.SendInvitation(invitation.Email, link, issuer.Name, companyName); err != nil {
		logger.Get().Warn("invitation email delivery failed",
			zap.String("email", invitation.Email),
			zap.Error(err),
		)
	}
}

// AcceptInvitationInput represents parameters to accept an invitation.
type AcceptInvitationInput struct {
	Token    string
	Name     string
	Password string
}

// Accept consumes a pending invitation: it creates the user bound to the
// inviting tenant and role and marks the invitation used, atomically, then
// opens a session for the new user.
func (s *InvitationService) Accept(input AcceptInvitationInput) (*models.User, *TokenPair, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, ErrNameRequired
	}
	if len(input.Password) < MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	now := time.Now()
	invitation, err := s.inviteRepo.FindPendingByToken(input.Token, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvitationInvalid
		}
		return nil, nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(invitation.Email); err == nil {
		return nil, nil, ErrInviteeAlreadyUser
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        invitation.Email,
		PasswordHash: hash,
		Role:         invitation.Role,
		IsActive:     true,
		TenantID:     invitation.TenantID,
	}

	if err := s.inviteRepo.Accept(invitation, user, now); err != nil {
		if errors.Is(err, repository.ErrConsumeInvitation) {
			return nil, nil, ErrInvitationInvalid
		}
		return nil, nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	pair, err := s.auth.IssueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}
