package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

// courseLookup is the slice of the course repository every course-scoped service needs.
type courseLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
}

// courseAccess answers "may this identity act on this course" for course-scoped routes.
type courseAccess struct {
	courses courseLookup
}

func (a courseAccess) load(ctx context.Context, code string) (*models.Course, error) {
	course, err := a.courses.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// owner returns the course when identity is the faculty member teaching it.
func (a courseAccess) owner(ctx context.Context, identity *models.Identity, code string) (*models.Course, error) {
	if err := requireFaculty(identity); err != nil {
		return nil, err
	}
	course, err := a.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if course.FacultyID != identity.AccountID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not teach this course")
	}
	return course, nil
}

// enrolled returns the course when identity is a student on its roster.
func (a courseAccess) enrolled(ctx context.Context, identity *models.Identity, code string) (*models.Course, error) {
	if err := requireStudent(identity); err != nil {
		return nil, err
	}
	course, err := a.load(ctx, code)
	if err != nil {
		return nil, err
	}
	ok, err := a.courses.IsEnrolled(ctx, course.ID, identity.AccountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not enrolled in this course")
	}
	return course, nil
}

// member accepts either the owning faculty or an enrolled student.
func (a courseAccess) member(ctx context.Context, identity *models.Identity, code string) (*models.Course, error) {
	if identity == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if identity.IsFaculty() {
		return a.owner(ctx, identity, code)
	}
	return a.enrolled(ctx, identity, code)
}
