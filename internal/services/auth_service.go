package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/projectpulse/project-management-api/internal/auth"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"gorm.io/gorm"
)

const MinPasswordLength = 8

var (
	ErrCompanyNameTaken    = errors.New("company name already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUserNotFound        = errors.New("user not found")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrNameRequired        = errors.New("name is required")
)

// AuthService handles tenant bootstrap and the session lifecycle.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	tokens    *auth.TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

// TokenPair is an access token plus the opaque refresh token backing it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// BootstrapTenantInput represents the tenant signup parameters.
type BootstrapTenantInput struct {
	CompanyName string
	Name        string
	Email       string
	Password    string
}

// BootstrapTenant creates a tenant with its first admin user and opens a
// session. This is the only path that creates a tenant.
func (s *AuthService) BootstrapTenant(input BootstrapTenantInput) (*models.Tenant, *models.User, *TokenPair, error) {
	companyName := strings.TrimSpace(input.CompanyName)
	if companyName == "" {
		return nil, nil, nil, ErrCompanyNameRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, nil, ErrNameRequired
	}
	if len(input.Password) < MinPasswordLength {
		return nil, nil, nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindTenantByCompanyName(companyName); err == nil {
		return nil, nil, nil, ErrCompanyNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, fmt.Errorf("failed to check company name: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tenant := &models.Tenant{CompanyName: companyName}
	user := &models.User{
		Name:         name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         models.TenantRoleAdmin,
		IsActive:     true,
	}

	if err := s.userRepo.CreateWithTenant(tenant, user); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to bootstrap tenant: %w", err)
	}

	pair, err := s.IssueTokenPair(user)
	if err != nil {
		return nil, nil, nil, err
	}

	return tenant, user, pair, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and opens a new session. An unknown email and a
// wrong password fail identically. Existing sessions on other devices stay
// valid.
func (s *AuthService) Login(input LoginInput) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.IssueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token row stays as-is: no rotation.
func (s *AuthService) Refresh(refreshTokenValue string) (string, error) {
	row, err := s.tokenRepo.FindValid(refreshTokenValue, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if !row.User.IsActive {
		return "", ErrUserInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(row.User.ID, row.User.TenantID, string(row.User.Role))
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes the session bound to the refresh token. Unknown or already
// revoked tokens are a silent no-op.
func (s *AuthService) Logout(refreshTokenValue string) error {
	if err := s.tokenRepo.DeleteByValue(refreshTokenValue); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// ResolveUser loads the principal for a verified access token. The token's
// tenant claim must match the user's current tenant; any mismatch fails
// closed.
func (s *AuthService) ResolveUser(claims *auth.Claims) (*models.User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByIDAndTenant(userID, claims.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// IssueTokenPair mints an access token and persists a fresh refresh token
// for the user.
func (s *AuthService) IssueTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.TenantID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	value, err := auth.NewRefreshTokenValue()
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	row := &models.RefreshToken{
		Token:     value,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(auth.RefreshTokenTTL),
	}
	if err := s.tokenRepo.Create(row); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: value}, nil
}
