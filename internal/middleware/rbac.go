package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/response"
)

// SelfParam is the route parameter compared against the caller for the "SELF" rule.
const SelfParam = "studentID"

// RBAC enforces role-based access control. "SELF" admits the caller when the :studentID
// route parameter is their own account.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	allowedRoles := make(map[models.Role]struct{}, len(allowed))
	for _, a := range allowed {
		if a == "SELF" {
			allowSelf = true
			continue
		}
		allowedRoles[models.Role(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[identity.Role]; ok {
			c.Next()
			return
		}
		if allowSelf {
			if target := c.Param(SelfParam); target != "" && target == identity.AccountID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.Clone(appErrors.ErrRoleMismatch, ""))
		c.Abort()
	}
}

// RequireRoles admits only the given roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
