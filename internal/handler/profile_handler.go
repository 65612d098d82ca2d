package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/response"
)

type profileService interface {
	Me(ctx context.Context, identity *models.Identity) (*dto.Profile, error)
	GetProfile(ctx context.Context, identity *models.Identity) (*dto.Profile, error)
	UpdateProfile(ctx context.Context, identity *models.Identity, req dto.UpdateProfileRequest) (*models.StudentProfile, error)
	ViewStudent(ctx context.Context, identity *models.Identity, code, studentID string) (*dto.RosterEntry, error)
}

// ProfileHandler serves the caller's account and student profile.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me godoc
// @Summary Current account with its role profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Get godoc
// @Summary Student profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Update godoc
// @Summary Update student profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.UpdateProfileRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /profile [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.service.UpdateProfile(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Profile updated")
	response.JSON(c, http.StatusOK, profile, nil)
}

// ViewStudent godoc
// @Summary View a roster member
// @Tags Profile
// @Produce json
// @Param code path string true "Course code"
// @Param studentID path string true "Student account ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{code}/students/{studentID} [get]
func (h *ProfileHandler) ViewStudent(c *gin.Context) {
	entry, err := h.service.ViewStudent(c.Request.Context(), identityFromContext(c), c.Param("code"), c.Param("studentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}
