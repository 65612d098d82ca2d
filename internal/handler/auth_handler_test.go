package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type authServiceMock struct {
	loginErr    error
	lastEntry   models.LoginEntry
	lastLogin   models.LoginRequest
	logoutToken string
	logoutFor   string
}

func (m *authServiceMock) Login(ctx context.Context, entry models.LoginEntry, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastEntry = entry
	m.lastLogin = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "access", Account: models.AccountInfo{DisplayName: "Shrikar Rao"}}, nil
}

func (m *authServiceMock) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "next"}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, accountID, refreshToken, ip, userAgent string) error {
	m.logoutFor = accountID
	m.logoutToken = refreshToken
	return nil
}

func (m *authServiceMock) ChangePassword(ctx context.Context, accountID string, req models.ChangePasswordRequest) error {
	return nil
}

type registrationServiceMock struct {
	startErr  error
	verifyErr error
	verified  dto.VerifyRegistrationRequest
}

func (m *registrationServiceMock) Start(ctx context.Context, req dto.RegisterStudentRequest) (*models.RegistrationStarted, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &models.RegistrationStarted{Token: "tok", Email: req.Email}, nil
}

func (m *registrationServiceMock) Verify(ctx context.Context, req dto.VerifyRegistrationRequest) (*models.LoginResponse, error) {
	m.verified = req
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return &models.LoginResponse{AccessToken: "access"}, nil
}

func TestAuthHandlerLoginThroughEntryPoint(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc, &registrationServiceMock{})

	c, w := newContext(t, http.MethodPost, "/auth/login/student", models.LoginRequest{Username: "shrikar", Password: "secret"}, nil)
	withParams(c, "entry", "student")
	c.Request.Header.Set("User-Agent", "tests")
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.LoginEntryStudent, svc.lastEntry)
	assert.Equal(t, "tests", svc.lastLogin.UserAgent)
	assert.Contains(t, noticeMessages(decode(t, w)), "Welcome back, Shrikar Rao")
}

func TestAuthHandlerLoginUnknownEntry(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc, &registrationServiceMock{})

	c, w := newContext(t, http.MethodPost, "/auth/login/admin", models.LoginRequest{Username: "x", Password: "y"}, nil)
	withParams(c, "entry", "admin")
	h.Login(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, svc.lastEntry)
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials}, &registrationServiceMock{})

	c, w := newContext(t, http.MethodPost, "/auth/login/faculty", models.LoginRequest{Username: "shrikar", Password: "secret"}, nil)
	withParams(c, "entry", "faculty")
	h.Login(c)

	assert.Equal(t, appErrors.ErrInvalidCredentials.Status, w.Code)
}

func TestAuthHandlerLogoutUsesCaller(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc, &registrationServiceMock{})

	c, w := newContext(t, http.MethodPost, "/auth/logout", models.RefreshTokenRequest{RefreshToken: "refresh"}, studentCaller())
	h.Logout(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "stu-shrikar", svc.logoutFor)
	assert.Equal(t, "refresh", svc.logoutToken)

	c, w = newContext(t, http.MethodPost, "/auth/logout", models.RefreshTokenRequest{RefreshToken: "refresh"}, nil)
	h.Logout(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerRegistration(t *testing.T) {
	reg := &registrationServiceMock{}
	h := NewAuthHandler(&authServiceMock{}, reg)

	c, w := newContext(t, http.MethodPost, "/auth/register", dto.RegisterStudentRequest{Email: "shrikar@example.edu"}, nil)
	h.Register(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, noticeMessages(decode(t, w)), "A verification code has been sent to shrikar@example.edu")

	c, w = newContext(t, http.MethodPost, "/auth/register/verify", dto.VerifyRegistrationRequest{Token: "tok", Code: "4821"}, nil)
	h.Verify(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "4821", reg.verified.Code)
	assert.NotEmpty(t, reg.verified.IP)
}

func TestAuthHandlerVerifyWrongCode(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, &registrationServiceMock{verifyErr: appErrors.Clone(appErrors.ErrInvalidVerificationCode, "")})

	c, w := newContext(t, http.MethodPost, "/auth/register/verify", dto.VerifyRegistrationRequest{Token: "tok", Code: "1111"}, nil)
	h.Verify(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, noticeMessages(decode(t, w)), "PLEASE ENTER CORRECT OTP")
}
