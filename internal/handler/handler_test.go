package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/middleware"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/response"
)

type decodedEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *struct{ Code string } `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Notices    []response.Notice      `json:"notices"`
	Meta       map[string]interface{} `json:"meta"`
}

func studentCaller() *models.Identity {
	return &models.Identity{AccountID: "stu-shrikar", Username: "shrikar", Role: models.RoleStudent, DisplayName: "Shrikar Rao"}
}

func facultyCaller() *models.Identity {
	return &models.Identity{AccountID: "fac-aakash", Username: "aakash", Role: models.RoleFaculty, DisplayName: "Aakash Mehta"}
}

// newContext builds a test context for method/path with an optional JSON body and caller.
func newContext(t *testing.T, method, target string, body interface{}, identity *models.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	if identity != nil {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: identity.AccountID, Role: identity.Role, Username: identity.Username})
		c.Set(middleware.ContextIdentityKey, identity)
	}
	return c, w
}

func withParams(c *gin.Context, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: kv[i], Value: kv[i+1]})
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()
	var env decodedEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func noticeMessages(env decodedEnvelope) []string {
	out := make([]string, 0, len(env.Notices))
	for _, n := range env.Notices {
		out = append(out, n.Message)
	}
	return out
}
