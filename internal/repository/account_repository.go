package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/database"
)

const accountColumns = `id, username, email, password_hash, role, active, last_login, created_at, updated_at`

// AccountRepository provides database access for accounts, their profiles and sessions.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByUsername returns an account by its handle.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findOne(ctx, "username", username)
}

// FindByEmail returns an account by email address. Matching is case-insensitive.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var acc models.Account
	if err := r.db.GetContext(ctx, &acc, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &acc, nil
}

// FindByID returns an account by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, "id", id)
}

func (r *AccountRepository) findOne(ctx context.Context, column, value string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s = $1 LIMIT 1`, accountColumns, column)
	var acc models.Account
	if err := r.db.GetContext(ctx, &acc, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find account by %s: %w", column, err)
	}
	return &acc, nil
}

// CreateStudent inserts the account and its student profile in one transaction.
func (r *AccountRepository) CreateStudent(ctx context.Context, acc *models.Account, profile *models.StudentProfile) error {
	acc.Role = models.RoleStudent
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAccount(ctx, tx, acc); err != nil {
			return err
		}
		profile.AccountID = acc.ID
		const query = `INSERT INTO student_profiles (account_id, first_name, middle_name, last_name, batch, branch, program) VALUES (:account_id, :first_name, :middle_name, :last_name, :batch, :branch, :program)`
		if _, err := tx.NamedExecContext(ctx, query, profile); err != nil {
			return fmt.Errorf("create student profile: %w", err)
		}
		return nil
	})
}

// CreateFaculty inserts the account and its faculty profile in one transaction.
func (r *AccountRepository) CreateFaculty(ctx context.Context, acc *models.Account, profile *models.FacultyProfile) error {
	acc.Role = models.RoleFaculty
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAccount(ctx, tx, acc); err != nil {
			return err
		}
		profile.AccountID = acc.ID
		const query = `INSERT INTO faculty_profiles (account_id, first_name, middle_name, last_name) VALUES (:account_id, :first_name, :middle_name, :last_name)`
		if _, err := tx.NamedExecContext(ctx, query, profile); err != nil {
			return fmt.Errorf("create faculty profile: %w", err)
		}
		return nil
	})
}

func insertAccount(ctx context.Context, tx *sqlx.Tx, acc *models.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = now
	}
	acc.UpdatedAt = now
	acc.Active = true

	const query = `INSERT INTO accounts (id, username, email, password_hash, role, active, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, acc); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindStudentProfile returns the student profile attached to an account.
func (r *AccountRepository) FindStudentProfile(ctx context.Context, accountID string) (*models.StudentProfile, error) {
	const query = `SELECT account_id, first_name, middle_name, last_name, batch, branch, program FROM student_profiles WHERE account_id = $1`
	var p models.StudentProfile
	if err := r.db.GetContext(ctx, &p, query, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student profile: %w", err)
	}
	return &p, nil
}

// FindFacultyProfile returns the faculty profile attached to an account.
func (r *AccountRepository) FindFacultyProfile(ctx context.Context, accountID string) (*models.FacultyProfile, error) {
	const query = `SELECT account_id, first_name, middle_name, last_name FROM faculty_profiles WHERE account_id = $1`
	var p models.FacultyProfile
	if err := r.db.GetContext(ctx, &p, query, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find faculty profile: %w", err)
	}
	return &p, nil
}

// UpdateStudentProfile overwrites the editable profile fields.
func (r *AccountRepository) UpdateStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	const query = `UPDATE student_profiles SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name, batch = :batch, branch = :branch, program = :program WHERE account_id = :account_id`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateLastLogin updates the last_login timestamp for an account.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE accounts SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *AccountRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_tokens (id, account_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent) VALUES (:id, :account_id, :token, :expires_at, :created_at, :revoked, :revoked_at, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by its digest.
func (r *AccountRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, account_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *AccountRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAccountRefreshTokens revokes every live refresh token of an account.
func (r *AccountRepository) RevokeAccountRefreshTokens(ctx context.Context, accountID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE account_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, accountID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke account refresh tokens: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit log entry.
func (r *AccountRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, account_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:id, :account_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
