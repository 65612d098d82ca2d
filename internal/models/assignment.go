package models

import "time"

// TurnInStatus is derived from when a submission was last turned in relative to the due date.
type TurnInStatus string

const (
	TurnInOnTime TurnInStatus = "Turned in"
	TurnInLate   TurnInStatus = "Turned in late"
)

// SubmissionState tracks a submission through its lifecycle.
type SubmissionState string

const (
	SubmissionOnTime SubmissionState = "SUBMITTED_ON_TIME"
	SubmissionLate   SubmissionState = "SUBMITTED_LATE"
	SubmissionGraded SubmissionState = "GRADED"
)

// ComputeTurnInStatus applies the due-date rule; a turn-in exactly at the deadline is on time.
func ComputeTurnInStatus(turnedInAt, dueAt time.Time) TurnInStatus {
	if turnedInAt.After(dueAt) {
		return TurnInLate
	}
	return TurnInOnTime
}

// Assignment is a graded task within a course. Names are unique per course.
type Assignment struct {
	ID            string    `db:"id" json:"id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	DueAt         time.Time `db:"due_at" json:"due_at"`
	MaxGrade      float64   `db:"max_grade" json:"max_grade"`
	AttachmentRef *string   `db:"attachment_ref" json:"attachment_ref,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Submission is one student's work for one assignment.
type Submission struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Work         string    `db:"work" json:"work"`
	Graded       bool      `db:"graded" json:"graded"`
	Grade        *float64  `db:"grade" json:"grade,omitempty"`
	Feedback     *string   `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TurnedInAt is the time of the latest save.
func (s Submission) TurnedInAt() time.Time {
	if s.UpdatedAt.IsZero() {
		return s.SubmittedAt
	}
	return s.UpdatedAt
}

// Status evaluates the turn-in status against dueAt.
func (s Submission) Status(dueAt time.Time) TurnInStatus {
	return ComputeTurnInStatus(s.TurnedInAt(), dueAt)
}

// State reports where the submission sits in its lifecycle.
func (s Submission) State(dueAt time.Time) SubmissionState {
	if s.Graded {
		return SubmissionGraded
	}
	if s.Status(dueAt) == TurnInLate {
		return SubmissionLate
	}
	return SubmissionOnTime
}
