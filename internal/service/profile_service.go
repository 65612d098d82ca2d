package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindStudentProfile(ctx context.Context, accountID string) (*models.StudentProfile, error)
	FindFacultyProfile(ctx context.Context, accountID string) (*models.FacultyProfile, error)
	UpdateStudentProfile(ctx context.Context, profile *models.StudentProfile) error
}

type rosterLookup interface {
	courseLookup
	RosterEntry(ctx context.Context, courseID, studentID string) (*dto.RosterEntry, error)
}

// ProfileService reads and edits account profiles.
type ProfileService struct {
	repo      profileRepository
	courses   rosterLookup
	access    courseAccess
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileRepository, courses rosterLookup, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, courses: courses, access: courseAccess{courses: courses}, validator: validate, logger: logger}
}

// Me returns the caller's account with the profile for its role.
func (s *ProfileService) Me(ctx context.Context, identity *models.Identity) (*dto.Profile, error) {
	if identity == nil {
		return nil, appErrors.ErrUnauthorized
	}
	account, err := s.repo.FindByID(ctx, identity.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}

	profile := &dto.Profile{Account: models.AccountInfo{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		Role:        account.Role,
		DisplayName: identity.DisplayName,
	}}
	if identity.IsStudent() {
		student, err := s.student(ctx, identity.AccountID)
		if err != nil {
			return nil, err
		}
		profile.Student = student
		return profile, nil
	}

	faculty, err := s.repo.FindFacultyProfile(ctx, identity.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	profile.Faculty = faculty
	return profile, nil
}

// GetProfile returns the student profile page. Faculty have no student profile to show.
func (s *ProfileService) GetProfile(ctx context.Context, identity *models.Identity) (*dto.Profile, error) {
	if err := requireStudent(identity); err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "profile is only available to students")
	}
	return s.Me(ctx, identity)
}

// UpdateProfile edits the calling student's profile fields.
func (s *ProfileService) UpdateProfile(ctx context.Context, identity *models.Identity, req dto.UpdateProfileRequest) (*models.StudentProfile, error) {
	if err := requireStudent(identity); err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "profile is only available to students")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	profile, err := s.student(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}
	applyString(&profile.FirstName, req.FirstName)
	applyString(&profile.MiddleName, req.MiddleName)
	applyString(&profile.LastName, req.LastName)
	applyString(&profile.Branch, req.Branch)
	applyString(&profile.Program, req.Program)
	if req.Batch != nil {
		profile.Batch = *req.Batch
	}

	if err := s.repo.UpdateStudentProfile(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return profile, nil
}

// ViewStudent shows a roster member to someone else in the same course.
func (s *ProfileService) ViewStudent(ctx context.Context, identity *models.Identity, code, studentID string) (*dto.RosterEntry, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	entry, err := s.courses.RosterEntry(ctx, course.ID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return entry, nil
}

func (s *ProfileService) student(ctx context.Context, accountID string) (*models.StudentProfile, error) {
	profile, err := s.repo.FindStudentProfile(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
