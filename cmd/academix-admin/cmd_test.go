package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academix-api/internal/models"
)

type memoryAccounts struct {
	byUsername map[string]*models.Account
	profiles   map[string]*models.FacultyProfile
	revoked    []string
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byUsername: map[string]*models.Account{}, profiles: map[string]*models.FacultyProfile{}}
}

func (m *memoryAccounts) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if acc, ok := m.byUsername[username]; ok {
		return acc, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, acc := range m.byUsername {
		if acc.Email == email {
			return acc, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryAccounts) CreateFaculty(ctx context.Context, acc *models.Account, profile *models.FacultyProfile) error {
	acc.ID = "fac-" + acc.Username
	acc.Role = models.RoleFaculty
	profile.AccountID = acc.ID
	m.byUsername[acc.Username] = acc
	m.profiles[acc.ID] = profile
	return nil
}

func (m *memoryAccounts) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	for _, acc := range m.byUsername {
		if acc.ID == id {
			acc.PasswordHash = passwordHash
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryAccounts) RevokeAccountRefreshTokens(ctx context.Context, accountID string) error {
	m.revoked = append(m.revoked, accountID)
	return nil
}

type recordingMigrator struct {
	command string
	args    []string
	err     error
}

func (m *recordingMigrator) Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	m.command = command
	m.args = args
	return m.err
}

func setup(t *testing.T, password string) (*commandLine, *memoryAccounts, *recordingMigrator) {
	t.Helper()
	original := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { readPasswordFunc = original })

	accounts := newMemoryAccounts()
	migrator := &recordingMigrator{}
	cli := &commandLine{accounts: accounts, migrator: migrator, out: &bytes.Buffer{}, logger: zap.NewNop()}
	return cli, accounts, migrator
}

func TestCommandLineHelp(t *testing.T) {
	cli, _, _ := setup(t, "")

	assert.Equal(t, errHelp, cli.run([]string{"academix-admin"}))
	assert.Equal(t, errHelp, cli.run([]string{"academix-admin", "lol"}))
	assert.Equal(t, errHelp, cli.run([]string{"academix-admin", "migrate"}))
	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "addfaculty")
}

func TestCommandLineMigrate(t *testing.T) {
	cli, _, migrator := setup(t, "")

	require.NoError(t, cli.run([]string{"academix-admin", "migrate", "up-to", "3"}))
	assert.Equal(t, "up-to", migrator.command)
	assert.Equal(t, []string{"3"}, migrator.args)

	migrator.err = errors.New(`"lol": no such command`)
	assert.EqualError(t, cli.run([]string{"academix-admin", "migrate", "lol"}), `"lol": no such command`)
}

func TestCommandLineAddFaculty(t *testing.T) {
	cli, accounts, _ := setup(t, "s3cret-pass")

	err := cli.run([]string{"academix-admin", "addfaculty", "-username", "Aakash", "-email", "aakash@example.edu", "-first", "Aakash", "-last", "Mehta"})
	require.NoError(t, err)

	acc, ok := accounts.byUsername["aakash"]
	require.True(t, ok)
	assert.Equal(t, models.RoleFaculty, acc.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, "Mehta", accounts.profiles[acc.ID].LastName)

	err = cli.run([]string{"academix-admin", "addfaculty", "-username", "aakash", "-email", "other@example.edu", "-first", "A", "-last", "M"})
	assert.EqualError(t, err, `username "aakash" is already taken`)
}

func TestCommandLineAddFacultyValidation(t *testing.T) {
	cli, _, _ := setup(t, "short")

	assert.Equal(t, errHelp, cli.run([]string{"academix-admin", "addfaculty", "-username", "aakash"}))
	assert.EqualError(t, cli.run([]string{"academix-admin", "addfaculty", "-username", "aakash", "-email", "a@example.edu", "-first", "A", "-last", "M"}),
		"password must be at least 8 characters")

	cli, _, _ = setup(t, "")
	assert.Equal(t, errHelp, cli.run([]string{"academix-admin", "addfaculty", "-username", "aakash", "-email", "a@example.edu", "-first", "A", "-last", "M"}))
}

func TestCommandLineResetPassword(t *testing.T) {
	cli, accounts, _ := setup(t, "brand-new-pass")
	accounts.byUsername["aakash"] = &models.Account{ID: "fac-aakash", Username: "aakash", Email: "aakash@example.edu", PasswordHash: "old"}

	require.NoError(t, cli.run([]string{"academix-admin", "resetpassword", "-username", "AAKASH@example.edu"}))
	acc := accounts.byUsername["aakash"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("brand-new-pass")))
	assert.Equal(t, []string{"fac-aakash"}, accounts.revoked)

	assert.EqualError(t, cli.run([]string{"academix-admin", "resetpassword", "-username", "nobody"}), `no account matches "nobody"`)
}
