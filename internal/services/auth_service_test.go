package services

import (
	"testing"
	"time"

	"github.com/projectpulse/project-management-api/internal/auth"
	"github.com/projectpulse/project-management-api/internal/database"
	"github.com/projectpulse/project-management-api/internal/mailer"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	inviteRepo  repository.InvitationRepository
	refreshRepo repository.RefreshTokenRepository
	auth        *AuthService
	projects    *ProjectService
	tasks       *TaskService
	invites     *InvitationService
	users       *UserService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Invitation{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	inviteRepo := repository.NewInvitationRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	tokens := auth.NewTokenService("test-secret")
	authService := NewAuthService(userRepo, refreshRepo, tokens)
	inviteService := NewInvitationService(inviteRepo, userRepo, authService, mailer.LogMailer{}, "http://localhost:3000/accept-invite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:          db,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		inviteRepo:  inviteRepo,
		refreshRepo: refreshRepo,
		auth:        authService,
		projects:    NewProjectService(projectRepo, userRepo),
		tasks:       NewTaskService(taskRepo, projectRepo),
		invites:     inviteService,
		users:       NewUserService(userRepo),
	}
}

// bootstrapTestTenant creates a tenant with its admin through the signup path.
func bootstrapTestTenant(t *testing.T, env serviceTestEnv, company, email string) (*models.Tenant, *models.User) {
	t.Helper()

	tenant, admin, _, err := env.auth.BootstrapTenant(BootstrapTenantInput{
		CompanyName: company,
		Name:        "Admin",
		Email:       email,
		Password:    "supersecret",
	})
	require.NoError(t, err)

	return tenant, admin
}

// createTestMember inserts a regular tenant user directly.
func createTestMember(t *testing.T, env serviceTestEnv, tenantID uint64, email string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	user := &models.User{
		Name:         "Member",
		Email:        email,
		PasswordHash: hash,
		Role:         models.TenantRoleMember,
		IsActive:     true,
		TenantID:     tenantID,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func TestAuthService_BootstrapTenant(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin, pair, err := env.auth.BootstrapTenant(BootstrapTenantInput{
		CompanyName: "Acme Corp",
		Name:        "Alice",
		Email:       "alice@acme.test",
		Password:    "supersecret",
	})
	require.NoError(t, err)
	require.NotZero(t, tenant.ID)
	require.Equal(t, tenant.ID, admin.TenantID)
	require.Equal(t, models.TenantRoleAdmin, admin.Role)
	require.True(t, admin.IsActive)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The refresh token is persisted.
	var count int64
	require.NoError(t, env.db.Model(&models.RefreshToken{}).
		Where("user_id = ?", admin.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAuthService_BootstrapTenant_CompanyNameTaken(t *testing.T) {
	env := setupServiceTestEnv(t)

	bootstrapTestTenant(t, env, "Acme Corp", "first@acme.test")

	_, _, _, err := env.auth.BootstrapTenant(BootstrapTenantInput{
		CompanyName: "Acme Corp",
		Name:        "Bob",
		Email:       "bob@other.test",
		Password:    "supersecret",
	})
	require.ErrorIs(t, err, ErrCompanyNameTaken)
}

func TestAuthService_BootstrapTenant_EmailTakenAcrossTenants(t *testing.T) {
	env := setupServiceTestEnv(t)

	bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	// The same email cannot bootstrap a second tenant.
	_, _, _, err := env.auth.BootstrapTenant(BootstrapTenantInput{
		CompanyName: "Globex",
		Name:        "Alice",
		Email:       "alice@acme.test",
		Password:    "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_BootstrapTenant_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, _, _, err := env.auth.BootstrapTenant(BootstrapTenantInput{
		CompanyName: "  ",
		Name:        "Alice",
		Email:       "alice@acme.test",
		Password:    "supersecret",
	})
	require.ErrorIs(t, err, ErrCompanyNameRequired)

	_, _, _, err = env.auth.BootstrapTenant(BootstrapTenantInput{
		CompanyName: "Acme Corp",
		Name:        "Alice",
		Email:       "alice@acme.test",
		Password:    "short",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Login(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	user, pair, err := env.auth.Login(LoginInput{
		Email:    "alice@acme.test",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, admin.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	env := setupServiceTestEnv(t)

	bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	// Wrong password and unknown email fail with the same error.
	_, _, err := env.auth.Login(LoginInput{
		Email:    "alice@acme.test",
		Password: "wrongpassword",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.auth.Login(LoginInput{
		Email:    "nobody@acme.test",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_KeepsOtherSessions(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	_, first, err := env.auth.Login(LoginInput{Email: "alice@acme.test", Password: "supersecret"})
	require.NoError(t, err)
	_, _, err = env.auth.Login(LoginInput{Email: "alice@acme.test", Password: "supersecret"})
	require.NoError(t, err)

	// The first session still refreshes after the second login.
	_, err = env.auth.Refresh(first.RefreshToken)
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.RefreshToken{}).
		Where("user_id = ?", admin.ID).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestAuthService_Refresh(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	_, pair, err := env.auth.Login(LoginInput{Email: "alice@acme.test", Password: "supersecret"})
	require.NoError(t, err)

	accessToken, err := env.auth.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)

	// No rotation: the same refresh token keeps working.
	_, err = env.auth.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	tokens := auth.NewTokenService("test-secret")
	claims, err := tokens.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, admin.ID, userID)
	require.Equal(t, admin.TenantID, claims.TenantID)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, err := env.auth.Refresh("never-issued")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	row := &models.RefreshToken{
		Token:     "expired-token-value",
		UserID:    admin.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(row).Error)

	_, err := env.auth.Refresh("expired-token-value")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, _ := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")

	_, pair, err := env.auth.Login(LoginInput{Email: "bob@acme.test", Password: "supersecret"})
	require.NoError(t, err)

	member.IsActive = false
	require.NoError(t, env.db.Save(member).Error)

	_, err = env.auth.Refresh(pair.RefreshToken)
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_Logout(t *testing.T) {
	env := setupServiceTestEnv(t)

	bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	_, pair, err := env.auth.Login(LoginInput{Email: "alice@acme.test", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(pair.RefreshToken))

	_, err = env.auth.Refresh(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Logging out again is a silent no-op.
	require.NoError(t, env.auth.Logout(pair.RefreshToken))
	require.NoError(t, env.auth.Logout("never-issued"))
}

func TestAuthService_ResolveUser_TenantMismatch(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	otherTenant, _ := bootstrapTestTenant(t, env, "Globex", "bob@globex.test")

	tokens := auth.NewTokenService("test-secret")

	good, err := tokens.GenerateAccessToken(admin.ID, admin.TenantID, string(admin.Role))
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(good)
	require.NoError(t, err)
	resolved, err := env.auth.ResolveUser(claims)
	require.NoError(t, err)
	require.Equal(t, admin.ID, resolved.ID)

	// A token carrying the wrong tenant claim must not resolve.
	stale, err := tokens.GenerateAccessToken(admin.ID, otherTenant.ID, string(admin.Role))
	require.NoError(t, err)
	claims, err = tokens.ValidateAccessToken(stale)
	require.NoError(t, err)
	_, err = env.auth.ResolveUser(claims)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
