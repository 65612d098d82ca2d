package models

import "time"

// Course is a catalog entry owned by one faculty member.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	Description string    `db:"description" json:"description"`
	FacultyID   string    `db:"faculty_id" json:"faculty_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter narrows course listings. Search matches name or course code.
// The Not* fields express the complement used for the available-course catalog.
type CourseFilter struct {
	Search       string
	StudentID    string
	FacultyID    string
	NotStudentID string
	NotFacultyID string
	Page         int
	PageSize     int
}

// Enrollment is one roster row.
type Enrollment struct {
	CourseID   string    `db:"course_id" json:"course_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// RosterFilter narrows roster listings. Search matches first or last name.
type RosterFilter struct {
	Search string
}
