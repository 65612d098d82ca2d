package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginEntry names a login entry point. Each entry point admits exactly one role.
type LoginEntry string

const (
	LoginEntryStudent LoginEntry = "student"
	LoginEntryFaculty LoginEntry = "faculty"
)

// Role returns the role admitted through the entry point.
func (e LoginEntry) Role() (Role, bool) {
	switch e {
	case LoginEntryStudent:
		return RoleStudent, true
	case LoginEntryFaculty:
		return RoleFaculty, true
	}
	return "", false
}

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued tokens and account info.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	Account      AccountInfo `json:"account"`
	IssuedAt     time.Time   `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// AccountInfo describes the authenticated account in responses.
type AccountInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	AccountID string `json:"account_id"`
	Role      Role   `json:"role"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is the caller as resolved from the account and its role profile.
type Identity struct {
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// IsStudent reports whether the identity carries the student role.
func (i Identity) IsStudent() bool { return i.Role == RoleStudent }

// IsFaculty reports whether the identity carries the faculty role.
func (i Identity) IsFaculty() bool { return i.Role == RoleFaculty }
