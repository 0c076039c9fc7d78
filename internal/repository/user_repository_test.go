package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB backs a gorm handle with a sqlmock connection so tests can
// assert the exact SQL the repositories emit.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "is_active", "tenant_id"}).
		AddRow(1, "Alice", "alice@acme.test", "hashed", "admin", true, 7)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("alice@acme.test", 1).
		WillReturnRows(rows)

	user, err := repo.FindByEmail("alice@acme.test")
	require.NoError(t, err)
	require.EqualValues(t, 1, user.ID)
	require.Equal(t, "alice@acme.test", user.Email)
	require.EqualValues(t, 7, user.TenantID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("nobody@acme.test", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail("nobody@acme.test")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRefreshTokenRepository_DeleteByValue_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "refresh_tokens" WHERE token = $1`)).
		WithArgs("never-issued").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Deleting a value that was never issued succeeds silently.
	require.NoError(t, repo.DeleteByValue("never-issued"))

	require.NoError(t, mock.ExpectationsWereMet())
}
