package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type identityRepository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindStudentProfile(ctx context.Context, accountID string) (*models.StudentProfile, error)
	FindFacultyProfile(ctx context.Context, accountID string) (*models.FacultyProfile, error)
}

// IdentityService resolves an authenticated account into the role it acts under.
type IdentityService struct {
	repo   identityRepository
	logger *zap.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(repo identityRepository, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{repo: repo, logger: logger}
}

// Resolve loads the account and the profile its role requires. An account without that profile,
// or an inactive one, cannot act and is reported as unauthorized.
func (s *IdentityService) Resolve(ctx context.Context, accountID string) (*models.Identity, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if !account.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}

	identity := &models.Identity{AccountID: account.ID, Username: account.Username, Role: account.Role}
	switch account.Role {
	case models.RoleStudent:
		profile, err := s.repo.FindStudentProfile(ctx, account.ID)
		if err != nil {
			return nil, s.profileError(account.ID, err)
		}
		identity.DisplayName = profile.FullName()
	case models.RoleFaculty:
		profile, err := s.repo.FindFacultyProfile(ctx, account.ID)
		if err != nil {
			return nil, s.profileError(account.ID, err)
		}
		identity.DisplayName = profile.FullName()
	default:
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account has no role")
	}
	return identity, nil
}

func (s *IdentityService) profileError(accountID string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("account has no profile for its role", zap.String("account_id", accountID))
		return appErrors.Clone(appErrors.ErrUnauthorized, "profile not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
}

func requireStudent(identity *models.Identity) error {
	if identity == nil {
		return appErrors.ErrUnauthorized
	}
	if !identity.IsStudent() {
		return appErrors.Clone(appErrors.ErrRoleMismatch, "only students can do this")
	}
	return nil
}

func requireFaculty(identity *models.Identity) error {
	if identity == nil {
		return appErrors.ErrUnauthorized
	}
	if !identity.IsFaculty() {
		return appErrors.Clone(appErrors.ErrRoleMismatch, "only faculty can do this")
	}
	return nil
}
