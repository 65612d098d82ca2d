package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

const (
	verificationCodeMin = 1000
	verificationCodeMax = 9999
)

type registrationAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateStudent(ctx context.Context, acc *models.Account, profile *models.StudentProfile) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type pendingRegistrationStore interface {
	Save(ctx context.Context, p *models.PendingRegistration) error
	Get(ctx context.Context, token string) (*models.PendingRegistration, error)
	RecordFailedAttempt(ctx context.Context, token string) (*models.PendingRegistration, error)
	Delete(ctx context.Context, token string) (bool, error)
}

type verificationNotifier interface {
	SendVerificationCode(ctx context.Context, email, name, code string) error
}

type sessionIssuer interface {
	IssueSession(ctx context.Context, account *models.Account, ip, userAgent string) (*models.LoginResponse, error)
}

var accountConstraintErrors = map[string]*appErrors.Error{
	"accounts_email_key":    appErrors.ErrEmailTaken,
	"accounts_username_key": appErrors.ErrUsernameTaken,
}

// RegistrationConfig tunes the verification step.
type RegistrationConfig struct {
	CodeTTL     time.Duration
	MaxAttempts int
}

// RegistrationService runs the two-step student sign-up: request a code, then confirm it.
type RegistrationService struct {
	accounts  registrationAccountRepository
	pending   pendingRegistrationStore
	notifier  verificationNotifier
	sessions  sessionIssuer
	validator *validator.Validate
	logger    *zap.Logger
	config    RegistrationConfig
	newCode   func() (string, error)
	now       func() time.Time
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(accounts registrationAccountRepository, pending pendingRegistrationStore, notifier verificationNotifier, sessions sessionIssuer, validate *validator.Validate, logger *zap.Logger, config RegistrationConfig) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CodeTTL <= 0 {
		config.CodeTTL = 15 * time.Minute
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	return &RegistrationService{
		accounts:  accounts,
		pending:   pending,
		notifier:  notifier,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		config:    config,
		newCode:   generateVerificationCode,
		now:       time.Now,
	}
}

// Start validates the sign-up form, stores it as a pending registration and emails a code.
// Mail delivery happens in the background; a failure to enqueue is logged, not returned.
func (s *RegistrationService) Start(ctx context.Context, req dto.RegisterStudentRequest) (*models.RegistrationStarted, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if _, err := s.accounts.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrEmailTaken, "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	code, err := s.newCode()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate verification code")
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash verification code")
	}

	now := s.now().UTC()
	pending := &models.PendingRegistration{
		Token:        uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FirstName:    strings.TrimSpace(req.FirstName),
		MiddleName:   strings.TrimSpace(req.MiddleName),
		LastName:     strings.TrimSpace(req.LastName),
		Batch:        req.Batch,
		Branch:       strings.TrimSpace(req.Branch),
		Program:      strings.TrimSpace(req.Program),
		CodeHash:     string(codeHash),
		MaxAttempts:  s.config.MaxAttempts,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.config.CodeTTL),
	}
	if err := s.pending.Save(ctx, pending); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store registration")
	}

	name := models.StudentProfile{FirstName: pending.FirstName, MiddleName: pending.MiddleName, LastName: pending.LastName}.FullName()
	if err := s.notifier.SendVerificationCode(ctx, pending.Email, name, code); err != nil {
		s.logger.Warn("verification email not queued", zap.String("email", pending.Email), zap.Error(err))
	}

	return &models.RegistrationStarted{Token: pending.Token, Email: pending.Email, ExpiresAt: pending.ExpiresAt}, nil
}

// Verify checks the code for a pending registration. A match creates the student account and
// signs it in; a mismatch burns one attempt.
func (s *RegistrationService) Verify(ctx context.Context, req dto.VerifyRegistrationRequest) (*models.LoginResponse, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}

	pending, err := s.pending.Get(ctx, req.Token)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrRegistrationExpired, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if s.now().UTC().After(pending.ExpiresAt) || pending.Exhausted() {
		_, _ = s.pending.Delete(ctx, req.Token)
		return nil, appErrors.Clone(appErrors.ErrRegistrationExpired, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(req.Code)); err != nil {
		updated, recErr := s.pending.RecordFailedAttempt(ctx, req.Token)
		switch {
		case errors.Is(recErr, appErrors.ErrCacheMiss):
			return nil, appErrors.Clone(appErrors.ErrRegistrationExpired, "")
		case recErr != nil:
			s.logger.Warn("failed to record verification attempt", zap.Error(recErr))
		case updated.Exhausted():
			return nil, appErrors.Clone(appErrors.ErrRegistrationExpired, "too many incorrect codes, please register again")
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidVerificationCode, "")
	}

	account := &models.Account{
		Username:     pending.Email,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         models.RoleStudent,
		Active:       true,
	}
	profile := &models.StudentProfile{
		FirstName:  pending.FirstName,
		MiddleName: pending.MiddleName,
		LastName:   pending.LastName,
		Batch:      pending.Batch,
		Branch:     pending.Branch,
		Program:    pending.Program,
	}
	if err := s.accounts.CreateStudent(ctx, account, profile); err != nil {
		return nil, appErrors.FromStorage(err, accountConstraintErrors, "failed to create account")
	}

	if _, err := s.pending.Delete(ctx, req.Token); err != nil {
		s.logger.Warn("failed to drop verified registration", zap.Error(err))
	}
	if err := s.accounts.CreateAuditLog(ctx, &models.AuditLog{
		AccountID:  &account.ID,
		Action:     models.AuditActionRegister,
		Resource:   "account",
		ResourceID: &account.ID,
		NewValues:  []byte(`{"role":"STUDENT"}`),
		IPAddress:  req.IP,
		UserAgent:  req.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record registration audit log", zap.Error(err))
	}

	return s.sessions.IssueSession(ctx, account, req.IP, req.UserAgent)
}

// generateVerificationCode returns a uniformly random code in [1000, 9999].
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(verificationCodeMax-verificationCodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+verificationCodeMin, 10), nil
}
