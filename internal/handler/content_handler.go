package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/internal/service"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/response"
)

type contentService interface {
	ListMaterials(ctx context.Context, identity *models.Identity, code string) ([]dto.MaterialItem, error)
	AddMaterial(ctx context.Context, identity *models.Identity, code string, req dto.CreateMaterialRequest) (*models.Material, error)
	UploadMaterialFile(ctx context.Context, identity *models.Identity, code, materialID, filename string, r io.Reader) (*models.Material, error)
	DownloadURL(ctx context.Context, identity *models.Identity, code, materialID string) (*dto.DownloadLink, error)
	Download(ctx context.Context, token string) (*service.FileDownload, error)
	ListAnnouncements(ctx context.Context, identity *models.Identity, code string) ([]dto.AnnouncementItem, error)
	AddAnnouncement(ctx context.Context, identity *models.Identity, code string, req dto.CreateAnnouncementRequest) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, identity *models.Identity, code, announcementID string) error
}

// ContentHandler serves course materials and announcements.
type ContentHandler struct {
	service contentService
}

// NewContentHandler builds a new handler.
func NewContentHandler(service contentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// ListMaterials godoc
// @Summary Course materials
// @Tags Content
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/materials [get]
func (h *ContentHandler) ListMaterials(c *gin.Context) {
	items, err := h.service.ListMaterials(c.Request.Context(), identityFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// AddMaterial godoc
// @Summary Add a material
// @Tags Content
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.CreateMaterialRequest true "Material"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/materials [post]
func (h *ContentHandler) AddMaterial(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if !bindJSON(c, &req, "invalid material payload") {
		return
	}
	material, err := h.service.AddMaterial(c.Request.Context(), identityFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Material added")
	response.Created(c, material)
}

// UploadFile godoc
// @Summary Attach a file to a material
// @Tags Content
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Course code"
// @Param id path string true "Material ID"
// @Param file formData file true "File"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/materials/{id}/file [put]
func (h *ContentHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close()

	material, err := h.service.UploadMaterialFile(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("id"), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "File uploaded")
	response.JSON(c, http.StatusOK, material, nil)
}

// DownloadURL godoc
// @Summary Signed download link for a material file
// @Tags Content
// @Produce json
// @Param code path string true "Course code"
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/materials/{id}/download-url [get]
func (h *ContentHandler) DownloadURL(c *gin.Context) {
	link, err := h.service.DownloadURL(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Stream a file through a signed link
// @Tags Content
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *ContentHandler) Download(c *gin.Context) {
	download, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.Content.Close()

	size := download.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, "application/octet-stream", download.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Name),
	})
}

// ListAnnouncements godoc
// @Summary Course announcements
// @Tags Content
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/announcements [get]
func (h *ContentHandler) ListAnnouncements(c *gin.Context) {
	items, err := h.service.ListAnnouncements(c.Request.Context(), identityFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// AddAnnouncement godoc
// @Summary Post an announcement
// @Tags Content
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/announcements [post]
func (h *ContentHandler) AddAnnouncement(c *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if !bindJSON(c, &req, "invalid announcement payload") {
		return
	}
	announcement, err := h.service.AddAnnouncement(c.Request.Context(), identityFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Announcement posted")
	response.Created(c, announcement)
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags Content
// @Produce json
// @Param code path string true "Course code"
// @Param id path string true "Announcement ID"
// @Success 303 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/announcements/{id} [delete]
func (h *ContentHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.service.DeleteAnnouncement(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Announcement deleted")
	response.RedirectBack(c, coursePath(c)+"/announcements")
}
