package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

func TestCourseServiceCreate(t *testing.T) {
	store := newCourseStore()
	cache := newMemoryCatalogCache()
	svc := NewCourseService(store, cache, nil, 0, nil, nil)
	aakash := faculty("fac-aakash", "aakash")

	course, err := svc.Create(context.Background(), aakash, dto.CreateCourseRequest{Name: " Intro to CS ", CourseCode: "CS101"})
	require.NoError(t, err)
	assert.Equal(t, "Intro to CS", course.Name)
	assert.Equal(t, "fac-aakash", course.FacultyID)
	assert.NotEmpty(t, course.ID)
	assert.Len(t, cache.invalidated, 1)

	_, err = svc.Create(context.Background(), aakash, dto.CreateCourseRequest{Name: "Other", CourseCode: "CS101"})
	requireAppError(t, err, appErrors.ErrDuplicateCourseCode)
}

func TestCourseServiceCreateRequiresFaculty(t *testing.T) {
	svc := NewCourseService(newCourseStore(), nil, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), student("stu-shrikar", "shrikar"), dto.CreateCourseRequest{Name: "X", CourseCode: "X1"})
	requireAppError(t, err, appErrors.ErrRoleMismatch)

	_, err = svc.Create(context.Background(), nil, dto.CreateCourseRequest{Name: "X", CourseCode: "X1"})
	requireAppError(t, err, appErrors.ErrUnauthorized)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := NewCourseService(newCourseStore(), nil, nil, 0, nil, nil)
	_, err := svc.Create(context.Background(), faculty("fac-aakash", "aakash"), dto.CreateCourseRequest{CourseCode: "CS101"})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestCourseServiceUpdateOwnerOnly(t *testing.T) {
	store := newCourseStore(cs101())
	svc := NewCourseService(store, nil, nil, 0, nil, nil)
	name := "Computing 101"

	_, err := svc.Update(context.Background(), faculty("fac-other", "other"), "CS101", dto.UpdateCourseRequest{Name: &name})
	requireAppError(t, err, appErrors.ErrForbidden)

	updated, err := svc.Update(context.Background(), faculty("fac-aakash", "aakash"), "CS101", dto.UpdateCourseRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, name, store.courses["CS101"].Name)
}

func TestCourseServiceUpdateDuplicateCode(t *testing.T) {
	other := &models.Course{ID: "course-ma101", Name: "Maths", CourseCode: "MA101", FacultyID: "fac-aakash"}
	svc := NewCourseService(newCourseStore(cs101(), other), nil, nil, 0, nil, nil)
	code := "MA101"

	_, err := svc.Update(context.Background(), faculty("fac-aakash", "aakash"), "CS101", dto.UpdateCourseRequest{CourseCode: &code})
	requireAppError(t, err, appErrors.ErrDuplicateCourseCode)
}

func TestCourseServiceEnrollOnce(t *testing.T) {
	store := newCourseStore(cs101())
	cache := newMemoryCatalogCache()
	svc := NewCourseService(store, cache, nil, 0, nil, nil)
	shrikar := student("stu-shrikar", "shrikar")

	roster, err := svc.Roster(context.Background(), faculty("fac-aakash", "aakash"), "CS101", "")
	require.NoError(t, err)
	assert.Len(t, roster, 0)

	res, err := svc.Enroll(context.Background(), shrikar, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 1, res.RosterCount)
	assert.Equal(t, "CS101", res.CourseCode)
	assert.Len(t, cache.invalidated, 1)

	_, err = svc.Enroll(context.Background(), shrikar, "CS101")
	requireAppError(t, err, appErrors.ErrAlreadyEnrolled)
	assert.Len(t, store.roster["course-cs101"], 1)
}

func TestCourseServiceEnrollRaceMapsConstraint(t *testing.T) {
	store := newCourseStore(cs101())
	store.enrollErr = uniqueViolation("course_enrollments_pkey")
	svc := NewCourseService(store, nil, nil, 0, nil, nil)

	_, err := svc.Enroll(context.Background(), student("stu-shrikar", "shrikar"), "CS101")
	requireAppError(t, err, appErrors.ErrAlreadyEnrolled)
}

func TestCourseServiceEnrollErrors(t *testing.T) {
	store := newCourseStore(cs101())
	svc := NewCourseService(store, nil, nil, 0, nil, nil)

	_, err := svc.Enroll(context.Background(), student("stu-shrikar", "shrikar"), "NOPE")
	requireAppError(t, err, appErrors.ErrNotFound)

	_, err = svc.Enroll(context.Background(), faculty("fac-aakash", "aakash"), "CS101")
	requireAppError(t, err, appErrors.ErrRoleMismatch)

	store.findErr = errors.New("db down")
	_, err = svc.Enroll(context.Background(), student("stu-shrikar", "shrikar"), "CS101")
	requireAppError(t, err, appErrors.ErrInternal)
}

func TestCourseServiceListAvailableUsesCache(t *testing.T) {
	store := newCourseStore(cs101())
	cache := newMemoryCatalogCache()
	svc := NewCourseService(store, cache, nil, 0, nil, nil)
	shrikar := student("stu-shrikar", "shrikar")

	items, page, hit, err := svc.ListAvailable(context.Background(), shrikar, dto.CourseListQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, items, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, "stu-shrikar", store.lastFilter.NotStudentID)

	items, page, hit, err = svc.ListAvailable(context.Background(), shrikar, dto.CourseListQuery{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 1, store.listCalls)

	_, err = svc.Enroll(context.Background(), shrikar, "CS101")
	require.NoError(t, err)

	items, _, hit, err = svc.ListAvailable(context.Background(), shrikar, dto.CourseListQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, items, 0)
	assert.Equal(t, 2, store.listCalls)
}

func TestCourseServiceListMine(t *testing.T) {
	store := newCourseStore(cs101(), &models.Course{ID: "course-ma101", CourseCode: "MA101", Name: "Maths", FacultyID: "fac-other"})
	store.enroll("course-cs101", "stu-shrikar")
	svc := NewCourseService(store, nil, nil, 0, nil, nil)

	items, _, err := svc.ListMine(context.Background(), student("stu-shrikar", "shrikar"), dto.CourseListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CS101", items[0].CourseCode)

	items, _, err = svc.ListMine(context.Background(), faculty("fac-other", "other"), dto.CourseListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "MA101", items[0].CourseCode)
}

func TestCourseServiceDetail(t *testing.T) {
	store := newCourseStore(cs101())
	store.enroll("course-cs101", "stu-shrikar")
	svc := NewCourseService(store, nil, nil, 0, nil, nil)

	detail, err := svc.Detail(context.Background(), student("stu-shrikar", "shrikar"), "CS101")
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	assert.False(t, detail.IsOwner)
	assert.Equal(t, 1, detail.StudentCount)

	detail, err = svc.Detail(context.Background(), faculty("fac-aakash", "aakash"), "CS101")
	require.NoError(t, err)
	assert.True(t, detail.IsOwner)
}

func TestCourseServiceRosterAccess(t *testing.T) {
	store := newCourseStore(cs101())
	store.enroll("course-cs101", "stu-shrikar")
	svc := NewCourseService(store, nil, nil, 0, nil, nil)

	_, err := svc.Roster(context.Background(), faculty("fac-other", "other"), "CS101", "")
	requireAppError(t, err, appErrors.ErrForbidden)

	_, err = svc.Roster(context.Background(), student("stu-other", "other"), "CS101", "")
	requireAppError(t, err, appErrors.ErrForbidden)

	roster, err := svc.Roster(context.Background(), student("stu-shrikar", "shrikar"), "CS101", "shri")
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestPageDefaults(t *testing.T) {
	page, size := pageDefaults(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = pageDefaults(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, size)

	_, size = pageDefaults(1, 50)
	assert.Equal(t, 50, size)
}
