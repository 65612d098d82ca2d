package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/logger"
	"github.com/noah-isme/academix-api/pkg/response"
)

// Gin context keys filled by the auth chain.
const (
	ContextUserKey     = "currentUser"
	ContextIdentityKey = "currentIdentity"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type identityResolver interface {
	Resolve(ctx context.Context, accountID string) (*models.Identity, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Please login first"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.AccountIDKey, claims.AccountID)
		c.Next()
	}
}

// Identity loads the caller's role profile after JWT. Accounts whose profile is missing or
// that were deactivated since the token was issued are turned away here.
func Identity(resolver identityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		identity, err := resolver.Resolve(c.Request.Context(), claims.AccountID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if identity.Role != claims.Role {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "role changed, please login again"))
			c.Abort()
			return
		}
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// CurrentClaims returns the validated token claims, or nil outside the JWT chain.
func CurrentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

// CurrentIdentity returns the resolved caller, or nil outside the identity chain.
func CurrentIdentity(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*models.Identity)
	return identity
}
