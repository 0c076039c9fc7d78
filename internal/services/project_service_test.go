package services

import (
	"testing"

	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/stretchr/testify/require"
)

// createTestProject makes a project through the service so the owner
// membership exists.
func createTestProject(t *testing.T, env serviceTestEnv, owner *models.User, name string) *models.Project {
	t.Helper()

	project, err := env.projects.Create(owner, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return project
}

func addProjectMember(t *testing.T, env serviceTestEnv, owner *models.User, projectID uint64, user *models.User, role models.ProjectRole) *models.ProjectMember {
	t.Helper()

	member, err := env.projects.AddMember(owner, projectID, AddMemberInput{
		UserID: user.ID,
		Role:   role,
	})
	require.NoError(t, err)
	return member
}

func TestProjectService_Create(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	project := createTestProject(t, env, admin, "Website Redesign")
	require.NotZero(t, project.ID)
	require.Equal(t, admin.TenantID, project.TenantID)
	require.Zero(t, project.Progress)

	// The creator holds an owner membership from the same transaction.
	member, err := env.projectRepo.FindMember(project.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectRoleOwner, member.Role)
}

func TestProjectService_Create_EmptyName(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	_, err := env.projects.Create(admin, CreateProjectInput{Name: "   "})
	require.ErrorIs(t, err, ErrInvalidProjectName)
}

func TestProjectService_List_Visibility(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")
	outsider := createTestMember(t, env, tenant.ID, "carol@acme.test")

	first := createTestProject(t, env, admin, "First")
	createTestProject(t, env, admin, "Second")

	addProjectMember(t, env, admin, first.ID, member, models.ProjectRoleViewer)

	// Admins see every project of the tenant, membership or not.
	projects, total, err := env.projects.List(admin, ListProjectsInput{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, projects, 2)

	// A member sees only projects they were added to.
	projects, total, err = env.projects.List(member, ListProjectsInput{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, projects, 1)
	require.Equal(t, first.ID, projects[0].ID)

	// A member with no memberships sees nothing.
	projects, total, err = env.projects.List(outsider, ListProjectsInput{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, projects)
}

func TestProjectService_List_TenantIsolation(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, acmeAdmin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	_, globexAdmin := bootstrapTestTenant(t, env, "Globex", "bob@globex.test")

	createTestProject(t, env, acmeAdmin, "Acme Only")

	projects, total, err := env.projects.List(globexAdmin, ListProjectsInput{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, projects)
}

func TestProjectService_Get_RoleAccess(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	viewer := createTestMember(t, env, tenant.ID, "bob@acme.test")
	stranger := createTestMember(t, env, tenant.ID, "carol@acme.test")

	project := createTestProject(t, env, admin, "Website Redesign")
	addProjectMember(t, env, admin, project.ID, viewer, models.ProjectRoleViewer)

	got, err := env.projects.Get(viewer, project.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, got.ID)

	_, err = env.projects.Get(stranger, project.ID)
	require.ErrorIs(t, err, ErrProjectAccessDenied)
}

func TestProjectService_Get_OtherTenantReadsAsNotFound(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, acmeAdmin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	_, globexAdmin := bootstrapTestTenant(t, env, "Globex", "bob@globex.test")

	project := createTestProject(t, env, acmeAdmin, "Acme Only")

	_, err := env.projects.Get(globexAdmin, project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_Update_RequiresEditor(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	editor := createTestMember(t, env, tenant.ID, "bob@acme.test")
	viewer := createTestMember(t, env, tenant.ID, "carol@acme.test")

	project := createTestProject(t, env, admin, "Website Redesign")
	addProjectMember(t, env, admin, project.ID, editor, models.ProjectRoleEditor)
	addProjectMember(t, env, admin, project.ID, viewer, models.ProjectRoleViewer)

	newName := "Website Relaunch"
	updated, err := env.projects.Update(editor, project.ID, UpdateProjectInput{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)

	// A viewer can read but not write.
	_, err = env.projects.Update(viewer, project.ID, UpdateProjectInput{Name: &newName})
	require.ErrorIs(t, err, ErrProjectAccessDenied)
}

func TestProjectService_AdminOverride(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	owner := createTestMember(t, env, tenant.ID, "bob@acme.test")

	project := createTestProject(t, env, owner, "Bob's Project")

	// The admin holds no membership row yet reaches the project as if an
	// owner.
	_, err := env.projects.Get(admin, project.ID)
	require.NoError(t, err)
	require.NoError(t, env.projects.SoftDelete(admin, project.ID))

	// The override never persists a membership.
	members, err := env.projectRepo.ListMembers(project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, owner.ID, members[0].UserID)
}

func TestProjectService_SoftDelete(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")

	project := createTestProject(t, env, admin, "Doomed")
	require.NoError(t, env.projects.SoftDelete(admin, project.ID))

	_, err := env.projects.Get(admin, project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	// The row survives the soft delete.
	var count int64
	require.NoError(t, env.db.Model(&models.Project{}).
		Where("id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProjectService_AddMember(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")

	project := createTestProject(t, env, admin, "Website Redesign")

	added := addProjectMember(t, env, admin, project.ID, member, models.ProjectRoleEditor)
	require.Equal(t, models.ProjectRoleEditor, added.Role)
	require.Equal(t, member.ID, added.UserID)

	// Adding the same user twice conflicts.
	_, err := env.projects.AddMember(admin, project.ID, AddMemberInput{
		UserID: member.ID,
		Role:   models.ProjectRoleViewer,
	})
	require.ErrorIs(t, err, ErrMemberAlreadyExists)
}

func TestProjectService_AddMember_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")
	_, globexAdmin := bootstrapTestTenant(t, env, "Globex", "carol@globex.test")

	project := createTestProject(t, env, admin, "Website Redesign")

	_, err := env.projects.AddMember(admin, project.ID, AddMemberInput{
		UserID: member.ID,
		Role:   "manager",
	})
	require.ErrorIs(t, err, ErrInvalidProjectRole)

	// Cross-tenant users cannot be added.
	_, err = env.projects.AddMember(admin, project.ID, AddMemberInput{
		UserID: globexAdmin.ID,
		Role:   models.ProjectRoleViewer,
	})
	require.ErrorIs(t, err, ErrMemberOutsideTenant)
}

func TestProjectService_RemoveMember_LastOwner(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	second := createTestMember(t, env, tenant.ID, "bob@acme.test")

	project := createTestProject(t, env, admin, "Website Redesign")

	ownerMember, err := env.projectRepo.FindMember(project.ID, admin.ID)
	require.NoError(t, err)

	// Removing the only owner fails and changes nothing.
	err = env.projects.RemoveMember(admin, project.ID, ownerMember.ID)
	require.ErrorIs(t, err, ErrCannotRemoveLastOwner)

	members, err := env.projectRepo.ListMembers(project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)

	// With a second owner the removal goes through.
	addProjectMember(t, env, admin, project.ID, second, models.ProjectRoleOwner)
	require.NoError(t, env.projects.RemoveMember(admin, project.ID, ownerMember.ID))

	members, err = env.projectRepo.ListMembers(project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, second.ID, members[0].UserID)
}

func TestProjectService_RemoveMember_WrongProject(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")

	first := createTestProject(t, env, admin, "First")
	second := createTestProject(t, env, admin, "Second")

	added := addProjectMember(t, env, admin, first.ID, member, models.ProjectRoleViewer)

	// A membership id from another project does not resolve.
	err := env.projects.RemoveMember(admin, second.ID, added.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestProjectService_ListMembers(t *testing.T) {
	env := setupServiceTestEnv(t)

	tenant, admin := bootstrapTestTenant(t, env, "Acme Corp", "alice@acme.test")
	member := createTestMember(t, env, tenant.ID, "bob@acme.test")

	project := createTestProject(t, env, admin, "Website Redesign")
	addProjectMember(t, env, admin, project.ID, member, models.ProjectRoleViewer)

	members, err := env.projects.ListMembers(member, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
}
