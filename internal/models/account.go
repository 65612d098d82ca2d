package models

import (
	"strings"
	"time"
)

// Role discriminates the two kinds of portal accounts.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// Account is a login identity stored in the accounts table.
type Account struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentProfile holds the student-only attributes of an account.
type StudentProfile struct {
	AccountID  string `db:"account_id" json:"account_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	MiddleName string `db:"middle_name" json:"middle_name,omitempty"`
	LastName   string `db:"last_name" json:"last_name"`
	Batch      int    `db:"batch" json:"batch"`
	Branch     string `db:"branch" json:"branch"`
	Program    string `db:"program" json:"program"`
}

// FullName joins the non-empty name parts.
func (p StudentProfile) FullName() string {
	return joinName(p.FirstName, p.MiddleName, p.LastName)
}

// FacultyProfile holds the faculty-only attributes of an account.
type FacultyProfile struct {
	AccountID  string `db:"account_id" json:"account_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	MiddleName string `db:"middle_name" json:"middle_name,omitempty"`
	LastName   string `db:"last_name" json:"last_name"`
}

// FullName joins the non-empty name parts.
func (p FacultyProfile) FullName() string {
	return joinName(p.FirstName, p.MiddleName, p.LastName)
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
