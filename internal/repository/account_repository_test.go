package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var accountRowColumns = []string{"id", "username", "email", "password_hash", "role", "active", "last_login", "created_at", "updated_at"}

func TestFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(accountRowColumns).
		AddRow("a1", "aakash", "aakash@example.edu", "hash", string(models.RoleFaculty), true, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, password_hash, role, active, last_login, created_at, updated_at FROM accounts WHERE username = $1 LIMIT 1")).
		WithArgs("aakash").
		WillReturnRows(rows)

	acc, err := repo.FindByUsername(context.Background(), "aakash")
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, acc.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE LOWER(email) = LOWER($1)")).
		WithArgs("nobody@example.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.edu")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentWritesAccountAndProfileInOneTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_profiles").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	acc := &models.Account{Username: "shrikar@example.edu", Email: "shrikar@example.edu", PasswordHash: "hash"}
	profile := &models.StudentProfile{FirstName: "Shrikar", Batch: 2022, Branch: "CSE", Program: "BTech"}
	require.NoError(t, repo.CreateStudent(context.Background(), acc, profile))

	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, acc.ID, profile.AccountID)
	assert.Equal(t, models.RoleStudent, acc.Role)
	assert.True(t, acc.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFacultyRollsBackWhenProfileFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_username_key"})
	mock.ExpectRollback()

	err := repo.CreateFaculty(context.Background(), &models.Account{Username: "aakash"}, &models.FacultyProfile{FirstName: "Aakash"})
	require.Error(t, err)
	assert.True(t, appErrors.IsUniqueViolation(err, "accounts_username_key"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordMissingAccount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "missing", "hash", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{AccountID: "a1", Token: "digest", ExpiresAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFacultyProfile(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	rows := sqlmock.NewRows([]string{"account_id", "first_name", "middle_name", "last_name"}).AddRow("a1", "Aakash", "", "Verma")
	mock.ExpectQuery(regexp.QuoteMeta("FROM faculty_profiles WHERE account_id = $1")).WithArgs("a1").WillReturnRows(rows)

	p, err := repo.FindFacultyProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Aakash Verma", p.FullName())
}
