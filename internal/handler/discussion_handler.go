package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/response"
)

type discussionService interface {
	ListQueries(ctx context.Context, identity *models.Identity, code string, mine bool) ([]dto.QueryItem, error)
	Ask(ctx context.Context, identity *models.Identity, code string, req dto.AskQueryRequest) (*models.Query, error)
	Reply(ctx context.Context, identity *models.Identity, code, queryID string, req dto.ReplyQueryRequest) (*models.Query, error)
	SubmitFeedback(ctx context.Context, identity *models.Identity, code string, req dto.SubmitFeedbackRequest) (*models.Feedback, error)
	FeedbackStatus(ctx context.Context, identity *models.Identity, code string) (*dto.FeedbackStatus, error)
	FeedbackForCourse(ctx context.Context, identity *models.Identity, code string) (*dto.FeedbackSummary, error)
}

// DiscussionHandler serves course queries and course feedback.
type DiscussionHandler struct {
	service discussionService
}

// NewDiscussionHandler builds a new handler.
func NewDiscussionHandler(service discussionService) *DiscussionHandler {
	return &DiscussionHandler{service: service}
}

// ListQueries godoc
// @Summary Course queries
// @Tags Queries
// @Produce json
// @Param code path string true "Course code"
// @Param mine query bool false "Only the caller's queries"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/queries [get]
func (h *DiscussionHandler) ListQueries(c *gin.Context) {
	mine, _ := strconv.ParseBool(c.Query("mine"))
	items, err := h.service.ListQueries(c.Request.Context(), identityFromContext(c), c.Param("code"), mine)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Ask godoc
// @Summary Ask the instructor a question
// @Tags Queries
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.AskQueryRequest true "Question"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/queries [post]
func (h *DiscussionHandler) Ask(c *gin.Context) {
	var req dto.AskQueryRequest
	if !bindJSON(c, &req, "invalid query payload") {
		return
	}
	query, err := h.service.Ask(c.Request.Context(), identityFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Query sent")
	response.Created(c, query)
}

// Reply godoc
// @Summary Answer a query
// @Description A later reply replaces the earlier one
// @Tags Queries
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param id path string true "Query ID"
// @Param payload body dto.ReplyQueryRequest true "Reply"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/queries/{id}/reply [put]
func (h *DiscussionHandler) Reply(c *gin.Context) {
	var req dto.ReplyQueryRequest
	if !bindJSON(c, &req, "invalid reply payload") {
		return
	}
	query, err := h.service.Reply(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Reply saved")
	response.JSON(c, http.StatusOK, query, nil)
}

// SubmitFeedback godoc
// @Summary Leave course feedback once
// @Tags Feedback
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/feedback [post]
func (h *DiscussionHandler) SubmitFeedback(c *gin.Context) {
	var req dto.SubmitFeedbackRequest
	if !bindJSON(c, &req, "invalid feedback payload") {
		return
	}
	feedback, err := h.service.SubmitFeedback(c.Request.Context(), identityFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Thank you for your feedback")
	response.Created(c, feedback)
}

// Feedback godoc
// @Summary Course feedback
// @Description Faculty receive every entry, students whether they already submitted
// @Tags Feedback
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/feedback [get]
func (h *DiscussionHandler) Feedback(c *gin.Context) {
	identity := identityFromContext(c)
	if identity != nil && identity.IsStudent() {
		status, err := h.service.FeedbackStatus(c.Request.Context(), identity, c.Param("code"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, status, nil)
		return
	}
	summary, err := h.service.FeedbackForCourse(c.Request.Context(), identity, c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
