package models

import "time"

// Material is a course resource, optionally backed by an uploaded file.
type Material struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	FileRef     *string   `db:"file_ref" json:"-"`
	FileName    *string   `db:"file_name" json:"file_name,omitempty"`
	FileSize    *int64    `db:"file_size" json:"file_size,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// HasFile reports whether an uploaded file is attached.
func (m Material) HasFile() bool {
	return m.FileRef != nil && *m.FileRef != ""
}

// Announcement is a course-wide post by its faculty.
type Announcement struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
