package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/cache"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type courseRepository interface {
	courseLookup
	FindItem(ctx context.Context, id string) (*dto.CourseItem, error)
	List(ctx context.Context, filter models.CourseFilter) ([]dto.CourseItem, int, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, int, error)
	Roster(ctx context.Context, courseID string, filter models.RosterFilter) ([]dto.RosterEntry, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}

type cachedCatalogPage struct {
	Items []dto.CourseItem `json:"items"`
	Total int              `json:"total"`
}

var courseConstraintErrors = map[string]*appErrors.Error{
	"courses_course_code_key": appErrors.ErrDuplicateCourseCode,
	"course_enrollments_pkey": appErrors.ErrAlreadyEnrolled,
}

// CourseService manages the catalog, course ownership and rosters.
type CourseService struct {
	repo      courseRepository
	access    courseAccess
	cache     catalogCache
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService. cache may be nil.
func NewCourseService(repo courseRepository, cache catalogCache, metrics *MetricsService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:      repo,
		access:    courseAccess{courses: repo},
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Create registers a new course taught by the calling faculty member.
func (s *CourseService) Create(ctx context.Context, identity *models.Identity, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := requireFaculty(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Name:        strings.TrimSpace(req.Name),
		CourseCode:  strings.TrimSpace(req.CourseCode),
		Description: strings.TrimSpace(req.Description),
		FacultyID:   identity.AccountID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.FromStorage(err, courseConstraintErrors, "failed to create course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Update changes a course the caller teaches. A new code must still be unique.
func (s *CourseService) Update(ctx context.Context, identity *models.Identity, code string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.CourseCode != nil {
		course.CourseCode = strings.TrimSpace(*req.CourseCode)
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.FromStorage(err, courseConstraintErrors, "failed to update course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Detail returns a course visible to the caller together with the caller's relationship to it.
func (s *CourseService) Detail(ctx context.Context, identity *models.Identity, code string) (*dto.CourseDetail, error) {
	if identity == nil {
		return nil, appErrors.ErrUnauthorized
	}
	course, err := s.access.load(ctx, code)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, course.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	detail := &dto.CourseDetail{Course: *item, StudentCount: item.StudentCount}
	if identity.IsFaculty() {
		detail.IsOwner = course.FacultyID == identity.AccountID
		return detail, nil
	}
	enrolled, err := s.repo.IsEnrolled(ctx, course.ID, identity.AccountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	detail.IsEnrolled = enrolled
	return detail, nil
}

// ListMine lists the courses the caller is enrolled in (students) or teaches (faculty).
func (s *CourseService) ListMine(ctx context.Context, identity *models.Identity, query dto.CourseListQuery) ([]dto.CourseItem, *models.Pagination, error) {
	if identity == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	filter := models.CourseFilter{Search: query.Search, Page: query.Page, PageSize: query.PageSize}
	if identity.IsStudent() {
		filter.StudentID = identity.AccountID
	} else {
		filter.FacultyID = identity.AccountID
	}
	return s.list(ctx, filter)
}

// ListAvailable lists every course the caller is not yet associated with. The second return
// value reports whether the page was served from cache.
func (s *CourseService) ListAvailable(ctx context.Context, identity *models.Identity, query dto.CourseListQuery) ([]dto.CourseItem, *models.Pagination, bool, error) {
	if identity == nil {
		return nil, nil, false, appErrors.ErrUnauthorized
	}
	filter := models.CourseFilter{Search: query.Search, Page: query.Page, PageSize: query.PageSize}
	if identity.IsStudent() {
		filter.NotStudentID = identity.AccountID
	} else {
		filter.NotFacultyID = identity.AccountID
	}

	key := catalogKey(identity.AccountID, filter)
	if s.cache != nil {
		var cached cachedCatalogPage
		if s.cache.Get(ctx, key, &cached) {
			return cached.Items, pagination(filter, cached.Total), true, nil
		}
	}

	items, page, err := s.list(ctx, filter)
	if err != nil {
		return nil, nil, false, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, cachedCatalogPage{Items: items, Total: page.TotalCount}, s.cacheTTL)
	}
	return items, page, false, nil
}

// Enroll adds the calling student to the course roster.
func (s *CourseService) Enroll(ctx context.Context, identity *models.Identity, code string) (*dto.EnrollmentResult, error) {
	if err := requireStudent(identity); err != nil {
		return nil, err
	}
	course, err := s.access.load(ctx, code)
	if err != nil {
		return nil, err
	}

	already, err := s.repo.IsEnrolled(ctx, course.ID, identity.AccountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if already {
		return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
	}

	enrollment, count, err := s.repo.Enroll(ctx, course.ID, identity.AccountID)
	if err != nil {
		return nil, appErrors.FromStorage(err, courseConstraintErrors, "failed to enroll")
	}

	s.metrics.RecordEnrollment()
	s.invalidateCatalog(ctx)
	s.logger.Info("student enrolled",
		zap.String("course_code", course.CourseCode),
		zap.String("student_id", identity.AccountID),
		zap.Int("roster_count", count))

	return &dto.EnrollmentResult{
		CourseCode:  course.CourseCode,
		StudentID:   identity.AccountID,
		RosterCount: count,
		EnrolledAt:  enrollment.EnrolledAt,
	}, nil
}

// Roster lists the students of a course the caller belongs to, filtered by name.
func (s *CourseService) Roster(ctx context.Context, identity *models.Identity, code, search string) ([]dto.RosterEntry, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.Roster(ctx, course.ID, models.RosterFilter{Search: search})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return entries, nil
}

func (s *CourseService) list(ctx context.Context, filter models.CourseFilter) ([]dto.CourseItem, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if items == nil {
		items = []dto.CourseItem{}
	}
	return items, pagination(filter, total), nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, cache.Key("catalog", "*"))
}

func catalogKey(accountID string, filter models.CourseFilter) string {
	page, size := pageDefaults(filter.Page, filter.PageSize)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	return cache.Key("catalog", accountID, strconv.Itoa(page), strconv.Itoa(size), "q="+search)
}

func pagination(filter models.CourseFilter, total int) *models.Pagination {
	page, size := pageDefaults(filter.Page, filter.PageSize)
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

// pageDefaults mirrors the repository's paging so cached and fresh pages agree.
func pageDefaults(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
