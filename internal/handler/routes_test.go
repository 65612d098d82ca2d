package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/middleware"
	"github.com/noah-isme/academix-api/internal/models"
)

func newTestRouter(t *testing.T, caller *models.Identity) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		if caller == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: caller.AccountID, Role: caller.Role})
		c.Next()
	}
	setIdentity := func(c *gin.Context) {
		c.Set(middleware.ContextIdentityKey, caller)
		c.Next()
	}
	handlers := Handlers{
		Auth:       NewAuthHandler(&authServiceMock{}, &registrationServiceMock{}),
		Profile:    NewProfileHandler(nil),
		Course:     NewCourseHandler(&courseServiceMock{}),
		Content:    NewContentHandler(&contentServiceMock{}),
		Assignment: NewAssignmentHandler(&assignmentServiceMock{}),
		Gradebook:  NewGradebookHandler(&gradebookServiceMock{}),
		Discussion: NewDiscussionHandler(&discussionServiceMock{}),
		Metrics:    NewMetricsHandler(nil, nil),
	}
	require.NotPanics(t, func() {
		RegisterSystemRoutes(r, handlers.Metrics)
		RegisterRoutes(r.Group("/api/v1"), handlers, Guards{JWT: fakeAuth, Identity: setIdentity})
	})
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRoutesEnforceRoles(t *testing.T) {
	r := newTestRouter(t, studentCaller())

	assert.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/api/v1/courses/CS101/enroll").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/v1/courses/CS101/gradebook").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/courses/CS101/students/stu-shrikar/submissions").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/v1/courses/CS101/students/stu-priya/submissions").Code)

	r = newTestRouter(t, facultyCaller())
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/api/v1/courses/CS101/enroll").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/courses/CS101/students/stu-priya/submissions").Code)
}

func TestRoutesStaticCourseListsBeforeCode(t *testing.T) {
	r := newTestRouter(t, studentCaller())

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/courses/available").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/courses/mine").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/courses/CS101").Code)
}

func TestRoutesRequireAuthentication(t *testing.T) {
	r := newTestRouter(t, nil)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/v1/courses/mine").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/downloads/tok").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health").Code)
}
