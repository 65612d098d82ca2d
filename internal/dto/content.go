package dto

import (
	"time"

	"github.com/noah-isme/academix-api/internal/models"
)

// MaterialItem is a material with a signed download link when a file is attached.
type MaterialItem struct {
	models.Material
	DownloadURL       string     `json:"download_url,omitempty"`
	DownloadExpiresAt *time.Time `json:"download_expires_at,omitempty"`
}

// DownloadLink grants temporary access to a stored file.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AnnouncementItem is an announcement with its author's display name.
type AnnouncementItem struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	AuthorName  string    `db:"author_name" json:"author_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// QueryItem is a question with the asking student's name.
type QueryItem struct {
	ID          string     `db:"id" json:"id"`
	CourseID    string     `db:"course_id" json:"course_id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	StudentName string     `db:"student_name" json:"student_name"`
	Question    string     `db:"question" json:"question"`
	Reply       *string    `db:"reply" json:"reply,omitempty"`
	RepliedAt   *time.Time `db:"replied_at" json:"replied_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// FeedbackItem is one feedback entry with its author's username.
type FeedbackItem struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Username  string    `db:"username" json:"username"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FeedbackSummary is the faculty view of a course's feedback.
type FeedbackSummary struct {
	CourseCode string         `json:"course_code"`
	Count      int            `json:"count"`
	Entries    []FeedbackItem `json:"entries"`
}

// FeedbackStatus tells a student whether they already left feedback.
type FeedbackStatus struct {
	CourseCode  string     `json:"course_code"`
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}
