package models

import "time"

// Query is a student's question in a course thread with at most one faculty reply.
type Query struct {
	ID        string     `db:"id" json:"id"`
	CourseID  string     `db:"course_id" json:"course_id"`
	StudentID string     `db:"student_id" json:"student_id"`
	Question  string     `db:"question" json:"question"`
	Reply     *string    `db:"reply" json:"reply,omitempty"`
	RepliedAt *time.Time `db:"replied_at" json:"replied_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Answered reports whether a reply is attached.
func (q Query) Answered() bool {
	return q.Reply != nil
}

// Feedback is the single comment an account may leave on a course.
type Feedback struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
