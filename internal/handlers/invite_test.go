package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/projectpulse/project-management-api/internal/dto"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/services"
	"github.com/stretchr/testify/require"
)

func createInviteTestMember(t *testing.T, env handlerTestEnv, tenantID uint64, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Member",
		Email:        email,
		PasswordHash: "hashed",
		Role:         models.TenantRoleMember,
		IsActive:     true,
		TenantID:     tenantID,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func TestInviteHandler_Create(t *testing.T) {
	env := setupHandlerTestEnv(t)

	_, admin := signupTestTenant(t, env, "Acme Corp", "alice@acme.test")

	r := gin.New()
	r.POST("/api/invite", asUser(admin), env.inviteHandler.Create)

	req := jsonRequest(t, http.MethodPost, "/api/invite", map[string]string{
		"email": "bob@acme.test",
		"role":  "member",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "bob@acme.test", response.Email)
	require.Equal(t, models.TenantRoleMember, response.Role)
	require.NotEmpty(t, response.Token)
}

func TestInviteHandler_Create_NonAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)

	tenant, _ := signupTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createInviteTestMember(t, env, tenant.ID, "bob@acme.test")

	r := gin.New()
	r.POST("/api/invite", asUser(member), env.inviteHandler.Create)

	req := jsonRequest(t, http.MethodPost, "/api/invite", map[string]string{
		"email": "carol@acme.test",
		"role":  "member",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInviteHandler_Create_ExistingUser(t *testing.T) {
	env := setupHandlerTestEnv(t)

	tenant, admin := signupTestTenant(t, env, "Acme Corp", "alice@acme.test")
	createInviteTestMember(t, env, tenant.ID, "bob@acme.test")

	r := gin.New()
	r.POST("/api/invite", asUser(admin), env.inviteHandler.Create)

	req := jsonRequest(t, http.MethodPost, "/api/invite", map[string]string{
		"email": "bob@acme.test",
		"role":  "member",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInviteHandler_Accept(t *testing.T) {
	env := setupHandlerTestEnv(t)

	_, admin := signupTestTenant(t, env, "Acme Corp", "alice@acme.test")

	invitation, err := env.inviteService.Create(admin, services.CreateInvitationInput{
		Email: "bob@acme.test",
		Role:  models.TenantRoleMember,
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/invite/accept/:token", env.inviteHandler.Accept)

	req := jsonRequest(t, http.MethodPost, "/api/invite/accept/"+invitation.Token, map[string]string{
		"name":     "Bob",
		"password": "supersecret",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "bob@acme.test", response.User.Email)
	require.Equal(t, admin.TenantID, response.User.TenantID)
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)

	// The token is consumed: accepting again is rejected.
	req = jsonRequest(t, http.MethodPost, "/api/invite/accept/"+invitation.Token, map[string]string{
		"name":     "Impostor",
		"password": "supersecret",
	})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteHandler_Accept_UnknownToken(t *testing.T) {
	env := setupHandlerTestEnv(t)

	r := gin.New()
	r.POST("/api/invite/accept/:token", env.inviteHandler.Accept)

	req := jsonRequest(t, http.MethodPost, "/api/invite/accept/no-such-token", map[string]string{
		"name":     "Bob",
		"password": "supersecret",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
