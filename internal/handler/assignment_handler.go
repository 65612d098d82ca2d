package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, identity *models.Identity, code string, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	Update(ctx context.Context, identity *models.Identity, code, name string, req dto.UpdateAssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, identity *models.Identity, code, name string) error
	List(ctx context.Context, identity *models.Identity, code string) ([]dto.AssignmentItem, error)
	Submit(ctx context.Context, identity *models.Identity, code, name string, req dto.SubmitWorkRequest) (*dto.SubmissionView, error)
	EditSubmission(ctx context.Context, identity *models.Identity, code, name string, req dto.SubmitWorkRequest) (*dto.SubmissionView, error)
	Submissions(ctx context.Context, identity *models.Identity, code, name string) ([]dto.SubmissionItem, error)
	StudentSubmissions(ctx context.Context, identity *models.Identity, code, studentID string) ([]dto.SubmissionItem, error)
	Grade(ctx context.Context, identity *models.Identity, code, name, submissionID string, req dto.GradeSubmissionRequest) (*dto.SubmissionView, error)
}

// AssignmentHandler exposes assignments and the submission workflow.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler builds a new handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// List godoc
// @Summary Course assignments
// @Description Students also receive their own submission per assignment
// @Tags Assignments
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), identityFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), identityFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Assignment created")
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param name path string true "Assignment name"
// @Param payload body dto.UpdateAssignmentRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments/{name} [patch]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.service.Update(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Assignment updated")
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Delete an assignment and its submissions
// @Tags Assignments
// @Produce json
// @Param code path string true "Course code"
// @Param name path string true "Assignment name"
// @Success 303 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments/{name} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Assignment deleted")
	response.RedirectBack(c, coursePath(c)+"/assignments")
}

// Submit godoc
// @Summary Turn in work
// @Tags Submissions
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param name path string true "Assignment name"
// @Param payload body dto.SubmitWorkRequest true "Work"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments/{name}/submission [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	var req dto.SubmitWorkRequest
	if !bindJSON(c, &req, "invalid submission payload") {
		return
	}
	view, err := h.service.Submit(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	turnInNotice(c, view.Status)
	response.Created(c, view)
}

// EditSubmission godoc
// @Summary Replace turned-in work
// @Tags Submissions
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param name path string true "Assignment name"
// @Param payload body dto.SubmitWorkRequest true "Work"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments/{name}/submission [put]
func (h *AssignmentHandler) EditSubmission(c *gin.Context) {
	var req dto.SubmitWorkRequest
	if !bindJSON(c, &req, "invalid submission payload") {
		return
	}
	view, err := h.service.EditSubmission(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	turnInNotice(c, view.Status)
	response.JSON(c, http.StatusOK, view, nil)
}

// Submissions godoc
// @Summary Submissions for an assignment
// @Tags Submissions
// @Produce json
// @Param code path string true "Course code"
// @Param name path string true "Assignment name"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments/{name}/submissions [get]
func (h *AssignmentHandler) Submissions(c *gin.Context) {
	items, err := h.service.Submissions(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// StudentSubmissions godoc
// @Summary One student's submissions in a course
// @Tags Submissions
// @Produce json
// @Param code path string true "Course code"
// @Param studentID path string true "Student account ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/students/{studentID}/submissions [get]
func (h *AssignmentHandler) StudentSubmissions(c *gin.Context) {
	items, err := h.service.StudentSubmissions(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("studentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param name path string true "Assignment name"
// @Param id path string true "Submission ID"
// @Param payload body dto.GradeSubmissionRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/assignments/{name}/submissions/{id}/grade [post]
func (h *AssignmentHandler) Grade(c *gin.Context) {
	var req dto.GradeSubmissionRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	view, err := h.service.Grade(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("name"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Submission graded")
	response.JSON(c, http.StatusOK, view, nil)
}

func turnInNotice(c *gin.Context, status models.TurnInStatus) {
	if status == models.TurnInLate {
		response.AddNotice(c, response.NoticeWarning, string(status))
		return
	}
	response.Success(c, string(status))
}
