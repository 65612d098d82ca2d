package dto

import (
	"time"

	"github.com/noah-isme/academix-api/internal/models"
)

// CourseItem is a course as shown in listings.
type CourseItem struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CourseCode   string    `db:"course_code" json:"course_code"`
	Description  string    `db:"description" json:"description"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	FacultyName  string    `db:"faculty_name" json:"faculty_name"`
	StudentCount int       `db:"student_count" json:"student_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RosterEntry is one enrolled student.
type RosterEntry struct {
	StudentID  string    `db:"student_id" json:"student_id"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	FirstName  string    `db:"first_name" json:"first_name"`
	MiddleName string    `db:"middle_name" json:"middle_name,omitempty"`
	LastName   string    `db:"last_name" json:"last_name"`
	Batch      int       `db:"batch" json:"batch"`
	Branch     string    `db:"branch" json:"branch"`
	Program    string    `db:"program" json:"program"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// CourseDetail bundles a course with the caller's relationship to it.
type CourseDetail struct {
	Course       CourseItem `json:"course"`
	IsOwner      bool       `json:"is_owner"`
	IsEnrolled   bool       `json:"is_enrolled"`
	StudentCount int        `json:"student_count"`
}

// Profile is the caller's account with the profile matching its role.
type Profile struct {
	Account models.AccountInfo     `json:"account"`
	Student *models.StudentProfile `json:"student,omitempty"`
	Faculty *models.FacultyProfile `json:"faculty,omitempty"`
}

// EnrollmentResult is returned after a successful enrollment.
type EnrollmentResult struct {
	CourseCode  string    `json:"course_code"`
	StudentID   string    `json:"student_id"`
	RosterCount int       `json:"roster_count"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}
