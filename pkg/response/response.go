package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

// Notice levels rendered by clients as banners.
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a one-shot, human readable message attached to a response.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Notices    []Notice               `json:"notices,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

const noticesKey = "responseNotices"

// AddNotice queues a notice that the next envelope written for this request will carry.
func AddNotice(c *gin.Context, level, message string) {
	if c == nil || strings.TrimSpace(message) == "" {
		return
	}
	notices := Notices(c)
	notices = append(notices, Notice{Level: level, Message: message})
	c.Set(noticesKey, notices)
}

// Success is shorthand for AddNotice with the success level.
func Success(c *gin.Context, message string) {
	AddNotice(c, NoticeSuccess, message)
}

// Notices returns the notices queued so far.
func Notices(c *gin.Context) []Notice {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(noticesKey); ok {
		if notices, ok := v.([]Notice); ok {
			return notices
		}
	}
	return nil
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination, Notices: Notices(c)}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	notices := append(Notices(c), Notice{Level: NoticeError, Message: appErr.Message})
	c.JSON(appErr.Status, Envelope{Error: appErr, Notices: notices})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RedirectBack answers with 303 See Other pointing at the Referer, or fallback when the
// request carries none. Queued notices are returned in the body for API clients.
func RedirectBack(c *gin.Context, fallback string) {
	target := strings.TrimSpace(c.GetHeader("Referer"))
	if target == "" {
		target = fallback
	}
	noStore(c)
	c.Header("Location", target)
	c.JSON(http.StatusSeeOther, Envelope{
		Notices: Notices(c),
		Meta:    map[string]interface{}{"location": target},
	})
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
