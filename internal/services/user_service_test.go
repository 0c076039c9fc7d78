package services

import (
	"testing"

	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListTenantUsers(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")
	bootstrapTestTenant(t, env, "Globex", "carol@globex.test")

	users, err := env.users.ListTenantUsers(admin)
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Only admins may list.
	_, err = env.users.ListTenantUsers(member)
	require.ErrorIs(t, err, ErrAdminRequired)
}

func TestUserService_ChangeRole(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")

	updated, err := env.users.ChangeRole(admin, member.ID, models.TenantRoleAdmin)
	require.NoError(t, err)
	require.Equal(t, models.TenantRoleAdmin, updated.Role)

	_, err = env.users.ChangeRole(admin, member.ID, "superuser")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = env.users.ChangeRole(admin, admin.ID, models.TenantRoleMember)
	require.ErrorIs(t, err, ErrCannotEditSelf)
}

func TestUserService_ChangeRole_OtherTenant(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, acmeAdmin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	_, globexAdmin := bootstrapTestTenant(t, env, "Globex", "bob@globex.test")

	_, err := env.users.ChangeRole(acmeAdmin, globexAdmin.ID, models.TenantRoleMember)
	require.ErrorIs(t, err, ErrUserNotInTenant)
}

func TestUserService_Deactivate(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")

	require.NoError(t, env.users.Deactivate(admin, member.ID))

	// The row stays, flagged inactive.
	reloaded, err := env.userRepo.FindByID(member.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsActive)

	require.ErrorIs(t, env.users.Deactivate(admin, member.ID), ErrAlreadyInactive)
	require.ErrorIs(t, env.users.Deactivate(admin, admin.ID), ErrCannotEditSelf)
}
