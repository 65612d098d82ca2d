package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/middleware"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, identity *models.Identity, req dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, identity *models.Identity, code string, req dto.UpdateCourseRequest) (*models.Course, error)
	Detail(ctx context.Context, identity *models.Identity, code string) (*dto.CourseDetail, error)
	ListMine(ctx context.Context, identity *models.Identity, query dto.CourseListQuery) ([]dto.CourseItem, *models.Pagination, error)
	ListAvailable(ctx context.Context, identity *models.Identity, query dto.CourseListQuery) ([]dto.CourseItem, *models.Pagination, bool, error)
	Enroll(ctx context.Context, identity *models.Identity, code string) (*dto.EnrollmentResult, error)
	Roster(ctx context.Context, identity *models.Identity, code, search string) ([]dto.RosterEntry, error)
}

// CourseHandler exposes the course registry.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Create godoc
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.service.Create(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Course created")
	response.Created(c, course)
}

// Update godoc
// @Summary Update a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.UpdateCourseRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code} [patch]
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.service.Update(c.Request.Context(), identityFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Course updated")
	response.JSON(c, http.StatusOK, course, nil)
}

// Detail godoc
// @Summary Course detail
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code} [get]
func (h *CourseHandler) Detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), identityFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Mine godoc
// @Summary Courses the caller is enrolled in or teaches
// @Tags Courses
// @Produce json
// @Param q query string false "Search name or code"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/mine [get]
func (h *CourseHandler) Mine(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}
	items, pagination, err := h.service.ListMine(c.Request.Context(), identityFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination, middleware.Meta(c))
}

// Available godoc
// @Summary Courses the caller is not associated with
// @Tags Courses
// @Produce json
// @Param q query string false "Search name or code"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/available [get]
func (h *CourseHandler) Available(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}
	items, pagination, hit, err := h.service.ListAvailable(c.Request.Context(), identityFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, items, pagination, middleware.Meta(c))
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	result, err := h.service.Enroll(c.Request.Context(), identityFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "User successfully enrolled in the course")
	response.Created(c, result)
}

// Roster godoc
// @Summary Enrolled students
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Param q query string false "Search first or last name"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/students [get]
func (h *CourseHandler) Roster(c *gin.Context) {
	entries, err := h.service.Roster(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

func bindListQuery(c *gin.Context) (dto.CourseListQuery, bool) {
	var query dto.CourseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return query, false
	}
	return query, true
}
