package dto

import (
	"time"

	"github.com/noah-isme/academix-api/internal/models"
)

// SubmissionItem is a submission joined with its assignment and student.
// Status and State are filled in by the service from DueAt.
type SubmissionItem struct {
	ID             string                 `db:"id" json:"id"`
	AssignmentID   string                 `db:"assignment_id" json:"assignment_id"`
	AssignmentName string                 `db:"assignment_name" json:"assignment_name"`
	DueAt          time.Time              `db:"due_at" json:"due_at"`
	MaxGrade       float64                `db:"max_grade" json:"max_grade"`
	StudentID      string                 `db:"student_id" json:"student_id"`
	Username       string                 `db:"username" json:"username"`
	StudentName    string                 `db:"student_name" json:"student_name"`
	Work           string                 `db:"work" json:"work"`
	Graded         bool                   `db:"graded" json:"graded"`
	Grade          *float64               `db:"grade" json:"grade,omitempty"`
	Feedback       *string                `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt    time.Time              `db:"submitted_at" json:"submitted_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
	Status         models.TurnInStatus    `db:"-" json:"status"`
	State          models.SubmissionState `db:"-" json:"state"`
}

// Submission converts the row back into the domain model.
func (s SubmissionItem) Submission() models.Submission {
	return models.Submission{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		StudentID:    s.StudentID,
		Work:         s.Work,
		Graded:       s.Graded,
		Grade:        s.Grade,
		Feedback:     s.Feedback,
		SubmittedAt:  s.SubmittedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Annotate computes the derived status fields.
func (s *SubmissionItem) Annotate() {
	sub := s.Submission()
	s.Status = sub.Status(s.DueAt)
	s.State = sub.State(s.DueAt)
}

// AssignmentItem is an assignment paired, for students, with their own submission.
type AssignmentItem struct {
	models.Assignment
	MySubmission    *SubmissionItem `json:"my_submission,omitempty"`
	SubmissionCount *int            `json:"submission_count,omitempty"`
}

// SubmissionView is the result of submitting or editing work.
type SubmissionView struct {
	Submission models.Submission      `json:"submission"`
	Assignment string                 `json:"assignment"`
	Status     models.TurnInStatus    `json:"status"`
	State      models.SubmissionState `json:"state"`
}

// Gradebook is every submission in a course, ordered by student then assignment.
type Gradebook struct {
	CourseCode  string           `json:"course_code"`
	CourseName  string           `json:"course_name"`
	Assignments []string         `json:"assignments"`
	Rows        []SubmissionItem `json:"rows"`
}
