package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

func student(id, username string) *models.Identity {
	return &models.Identity{AccountID: id, Username: username, Role: models.RoleStudent, DisplayName: username}
}

func faculty(id, username string) *models.Identity {
	return &models.Identity{AccountID: id, Username: username, Role: models.RoleFaculty, DisplayName: username}
}

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

func requireAppError(t *testing.T, err error, want *appErrors.Error) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	require.Equal(t, want.Code, appErr.Code)
	return appErr
}

// courseStore is an in-memory course repository keyed by course code.
type courseStore struct {
	courses   map[string]*models.Course
	roster    map[string][]dto.RosterEntry
	findErr   error
	listErr   error
	createErr error
	updateErr error
	enrollErr error

	listCalls  int
	lastFilter models.CourseFilter
	now        time.Time
}

func newCourseStore(courses ...*models.Course) *courseStore {
	s := &courseStore{
		courses: make(map[string]*models.Course),
		roster:  make(map[string][]dto.RosterEntry),
		now:     time.Date(2023, 11, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, c := range courses {
		s.courses[c.CourseCode] = c
	}
	return s
}

func (s *courseStore) enroll(courseID string, studentIDs ...string) {
	for _, id := range studentIDs {
		s.roster[courseID] = append(s.roster[courseID], dto.RosterEntry{StudentID: id, Username: id, EnrolledAt: s.now})
	}
}

func (s *courseStore) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.courses[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (s *courseStore) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	for _, e := range s.roster[courseID] {
		if e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *courseStore) FindItem(ctx context.Context, id string) (*dto.CourseItem, error) {
	for _, c := range s.courses {
		if c.ID == id {
			return &dto.CourseItem{
				ID:           c.ID,
				Name:         c.Name,
				CourseCode:   c.CourseCode,
				Description:  c.Description,
				FacultyID:    c.FacultyID,
				StudentCount: len(s.roster[c.ID]),
			}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *courseStore) List(ctx context.Context, filter models.CourseFilter) ([]dto.CourseItem, int, error) {
	s.listCalls++
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	codes := make([]string, 0, len(s.courses))
	for code := range s.courses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := []dto.CourseItem{}
	for _, code := range codes {
		c := s.courses[code]
		enrolled, _ := s.IsEnrolled(ctx, c.ID, filter.StudentID)
		notEnrolled, _ := s.IsEnrolled(ctx, c.ID, filter.NotStudentID)
		switch {
		case filter.StudentID != "" && !enrolled:
			continue
		case filter.NotStudentID != "" && notEnrolled:
			continue
		case filter.FacultyID != "" && c.FacultyID != filter.FacultyID:
			continue
		case filter.NotFacultyID != "" && c.FacultyID == filter.NotFacultyID:
			continue
		case filter.Search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.CourseCode), strings.ToLower(filter.Search)):
			continue
		}
		items = append(items, dto.CourseItem{ID: c.ID, Name: c.Name, CourseCode: c.CourseCode, FacultyID: c.FacultyID, StudentCount: len(s.roster[c.ID])})
	}
	return items, len(items), nil
}

func (s *courseStore) Create(ctx context.Context, course *models.Course) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.courses[course.CourseCode]; ok {
		return uniqueViolation("courses_course_code_key")
	}
	course.ID = "course-" + strings.ToLower(course.CourseCode)
	course.CreatedAt = s.now
	course.UpdatedAt = s.now
	copied := *course
	s.courses[course.CourseCode] = &copied
	return nil
}

func (s *courseStore) Update(ctx context.Context, course *models.Course) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for code, c := range s.courses {
		if c.ID == course.ID {
			if code != course.CourseCode {
				if _, taken := s.courses[course.CourseCode]; taken {
					return uniqueViolation("courses_course_code_key")
				}
				delete(s.courses, code)
			}
			copied := *course
			s.courses[course.CourseCode] = &copied
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *courseStore) Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, int, error) {
	if s.enrollErr != nil {
		return nil, 0, s.enrollErr
	}
	if ok, _ := s.IsEnrolled(ctx, courseID, studentID); ok {
		return nil, 0, uniqueViolation("course_enrollments_pkey")
	}
	s.enroll(courseID, studentID)
	return &models.Enrollment{CourseID: courseID, StudentID: studentID, EnrolledAt: s.now}, len(s.roster[courseID]), nil
}

func (s *courseStore) Roster(ctx context.Context, courseID string, filter models.RosterFilter) ([]dto.RosterEntry, error) {
	out := []dto.RosterEntry{}
	for _, e := range s.roster[courseID] {
		if filter.Search == "" || strings.Contains(e.Username, filter.Search) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *courseStore) RosterEntry(ctx context.Context, courseID, studentID string) (*dto.RosterEntry, error) {
	for _, e := range s.roster[courseID] {
		if e.StudentID == studentID {
			entry := e
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

// memoryCatalogCache round-trips values through JSON like the Redis-backed cache does.
type memoryCatalogCache struct {
	entries     map[string][]byte
	invalidated []string
}

func newMemoryCatalogCache() *memoryCatalogCache {
	return &memoryCatalogCache{entries: make(map[string][]byte)}
}

func (c *memoryCatalogCache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *memoryCatalogCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err == nil {
		c.entries[key] = raw
	}
}

func (c *memoryCatalogCache) Invalidate(ctx context.Context, pattern string) {
	c.invalidated = append(c.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func cs101() *models.Course {
	return &models.Course{ID: "course-cs101", Name: "Intro to CS", CourseCode: "CS101", FacultyID: "fac-aakash"}
}
