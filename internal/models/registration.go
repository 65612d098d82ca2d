package models

import "time"

// PendingRegistration is the server-side state between requesting and confirming a sign-up.
// It lives in Redis under its token until verified or expired.
type PendingRegistration struct {
	Token        string    `json:"token"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name,omitempty"`
	LastName     string    `json:"last_name"`
	Batch        int       `json:"batch"`
	Branch       string    `json:"branch"`
	Program      string    `json:"program"`
	CodeHash     string    `json:"code_hash"`
	Attempts     int       `json:"attempts"`
	MaxAttempts  int       `json:"max_attempts"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Exhausted reports whether no verification attempts remain.
func (p PendingRegistration) Exhausted() bool {
	return p.MaxAttempts > 0 && p.Attempts >= p.MaxAttempts
}

// RegistrationStarted is returned after the verification code has been issued.
type RegistrationStarted struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
