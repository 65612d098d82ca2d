package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/internal/service"
	"github.com/noah-isme/academix-api/pkg/response"
)

type gradebookService interface {
	Gradebook(ctx context.Context, identity *models.Identity, code string) (*dto.Gradebook, error)
	Export(ctx context.Context, identity *models.Identity, code, format string) (*service.GradebookFile, error)
}

// GradebookHandler serves a course's gradebook and its exports.
type GradebookHandler struct {
	service gradebookService
}

// NewGradebookHandler builds a new handler.
func NewGradebookHandler(service gradebookService) *GradebookHandler {
	return &GradebookHandler{service: service}
}

// Show godoc
// @Summary Course gradebook
// @Tags Gradebook
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/gradebook [get]
func (h *GradebookHandler) Show(c *gin.Context) {
	book, err := h.service.Gradebook(c.Request.Context(), identityFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Export godoc
// @Summary Download the gradebook
// @Tags Gradebook
// @Produce text/csv
// @Produce application/pdf
// @Param code path string true "Course code"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /courses/{code}/gradebook/export [get]
func (h *GradebookHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), identityFromContext(c), c.Param("code"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
