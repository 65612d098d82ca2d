package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, entry models.LoginEntry, req models.LoginRequest) (*models.LoginResponse, error)
	RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error)
	Logout(ctx context.Context, accountID, refreshToken, ip, userAgent string) error
	ChangePassword(ctx context.Context, accountID string, req models.ChangePasswordRequest) error
}

type registrationService interface {
	Start(ctx context.Context, req dto.RegisterStudentRequest) (*models.RegistrationStarted, error)
	Verify(ctx context.Context, req dto.VerifyRegistrationRequest) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth and registration services.
type AuthHandler struct {
	service      authService
	registration registrationService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, registration registrationService) *AuthHandler {
	return &AuthHandler{service: svc, registration: registration}
}

// Login godoc
// @Summary Authenticate through a role entry point
// @Description Students log in through /auth/login/student, faculty through /auth/login/faculty
// @Tags Authentication
// @Accept json
// @Produce json
// @Param entry path string true "student or faculty"
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login/{entry} [post]
func (h *AuthHandler) Login(c *gin.Context) {
	entry := models.LoginEntry(c.Param("entry"))
	if _, ok := entry.Role(); !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown login entry point"))
		return
	}
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), entry, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Welcome back, "+res.Account.DisplayName)
	response.JSON(c, http.StatusOK, res, nil)
}

// Refresh godoc
// @Summary Refresh access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if !bindJSON(c, &req, "invalid refresh payload") {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Tags Authentication
// @Accept json
// @Param payload body models.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var payload models.RefreshTokenRequest
	if !bindJSON(c, &payload, "refresh token required") {
		return
	}
	if err := h.service.Logout(c.Request.Context(), claims.AccountID, payload.RefreshToken, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ChangePassword godoc
// @Summary Change password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req, "invalid password payload") {
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), claims.AccountID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Password updated")
	response.JSON(c, http.StatusOK, gin.H{"changed": true}, nil)
}

// Register godoc
// @Summary Start student registration
// @Description Emails a 4-digit verification code and returns the registration token
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body dto.RegisterStudentRequest true "Student sign-up"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	started, err := h.registration.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.AddNotice(c, response.NoticeInfo, "A verification code has been sent to "+started.Email)
	response.JSON(c, http.StatusAccepted, started, nil)
}

// Verify godoc
// @Summary Confirm student registration
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body dto.VerifyRegistrationRequest true "Token and code"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /auth/register/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRegistrationRequest
	if !bindJSON(c, &req, "invalid verification payload") {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.registration.Verify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Registration complete")
	response.Created(c, res)
}
