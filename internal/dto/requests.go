package dto

import "time"

// RegisterStudentRequest starts a student sign-up.
type RegisterStudentRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	MiddleName string `json:"middle_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Batch      int    `json:"batch" validate:"required,min=1900,max=2999"`
	Branch     string `json:"branch" validate:"required,max=100"`
	Program    string `json:"program" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

// VerifyRegistrationRequest confirms a sign-up with the emailed code.
type VerifyRegistrationRequest struct {
	Token     string `json:"token" validate:"required,uuid4"`
	Code      string `json:"code" validate:"required,len=4,numeric"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// UpdateProfileRequest changes the caller's student profile. Nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Batch      *int    `json:"batch" validate:"omitempty,min=1900,max=2999"`
	Branch     *string `json:"branch" validate:"omitempty,min=1,max=100"`
	Program    *string `json:"program" validate:"omitempty,min=1,max=100"`
}

// CreateCourseRequest payload.
type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	CourseCode  string `json:"course_code" validate:"required,max=20"`
	Description string `json:"description" validate:"max=4000"`
}

// UpdateCourseRequest payload.
type UpdateCourseRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	CourseCode  *string `json:"course_code" validate:"omitempty,min=1,max=20"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

// CourseListQuery is the query string accepted by course listings.
type CourseListQuery struct {
	Search   string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateMaterialRequest payload.
type CreateMaterialRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
}

// CreateAnnouncementRequest payload.
type CreateAnnouncementRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=8000"`
}

// CreateAssignmentRequest payload.
type CreateAssignmentRequest struct {
	Name          string    `json:"name" validate:"required,max=200"`
	Description   string    `json:"description" validate:"max=8000"`
	DueAt         time.Time `json:"due_at" validate:"required"`
	MaxGrade      float64   `json:"max_grade" validate:"gt=0,max=9999.99"`
	AttachmentRef *string   `json:"attachment_ref" validate:"omitempty,max=500"`
}

// UpdateAssignmentRequest payload. Nil fields are left untouched.
type UpdateAssignmentRequest struct {
	Name          *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=8000"`
	DueAt         *time.Time `json:"due_at"`
	MaxGrade      *float64   `json:"max_grade" validate:"omitempty,gt=0,max=9999.99"`
	AttachmentRef *string    `json:"attachment_ref" validate:"omitempty,max=500"`
}

// SubmitWorkRequest carries the work for a new or edited submission.
type SubmitWorkRequest struct {
	Work string `json:"work" validate:"required,max=20000"`
}

// GradeSubmissionRequest payload.
type GradeSubmissionRequest struct {
	Grade    *float64 `json:"grade" validate:"required,max=9999.99"`
	Feedback *string  `json:"feedback" validate:"omitempty,max=4000"`
}

// AskQueryRequest payload.
type AskQueryRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

// ReplyQueryRequest payload.
type ReplyQueryRequest struct {
	Reply string `json:"reply" validate:"required,max=4000"`
}

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Comment string `json:"comment" validate:"required,max=4000"`
}
