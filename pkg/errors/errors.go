package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so clones and wrapped copies compare equal to the predefined values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Please Enter the correct Credentials.")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Domain errors surfaced by the course workflows.
var (
	ErrRoleMismatch             = New("ROLE_MISMATCH", http.StatusForbidden, "this action is not available for your role")
	ErrAlreadyEnrolled          = New("ALREADY_ENROLLED", http.StatusConflict, "User is already enrolled in this course")
	ErrDuplicateCourseCode      = New("DUPLICATE_COURSE_CODE", http.StatusConflict, "a course with this code already exists")
	ErrDuplicateAssignment      = New("DUPLICATE_ASSIGNMENT", http.StatusConflict, "an assignment with this name already exists in the course")
	ErrDuplicateSubmission      = New("DUPLICATE_SUBMISSION", http.StatusConflict, "you have already submitted this assignment")
	ErrFeedbackAlreadySubmitted = New("FEEDBACK_ALREADY_SUBMITTED", http.StatusConflict, "You have already given the feedback")
	ErrEmailTaken               = New("EMAIL_TAKEN", http.StatusConflict, "Enter correct Email")
	ErrUsernameTaken            = New("USERNAME_TAKEN", http.StatusConflict, "username already in use")
	ErrInvalidVerificationCode  = New("INVALID_VERIFICATION_CODE", http.StatusBadRequest, "PLEASE ENTER CORRECT OTP")
	ErrRegistrationExpired      = New("REGISTRATION_EXPIRED", http.StatusGone, "registration request expired, please register again")
	ErrGradeOutOfRange          = New("GRADE_OUT_OF_RANGE", http.StatusBadRequest, "grade must be between 0 and the assignment's max grade")
	ErrPayloadTooLarge          = New("PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
)

// Postgres SQLSTATE codes translated by FromStorage.
const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromStorage translates constraint violations reported by Postgres into domain errors.
// byConstraint maps constraint names to the error raised on a unique violation. Errors that are
// not constraint violations are wrapped as internal errors with the given message.
func FromStorage(err error, byConstraint map[string]*Error, message string) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			if mapped, ok := byConstraint[pqErr.Constraint]; ok {
				return Wrap(err, mapped.Code, mapped.Status, mapped.Message)
			}
			return Wrap(err, ErrConflict.Code, ErrConflict.Status, ErrConflict.Message)
		case pgNotNullViolation, pgForeignKeyViolation:
			return Wrap(err, ErrValidation.Code, ErrValidation.Status, "missing or invalid reference: "+pqErr.Column+pqErr.Constraint)
		}
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// IsUniqueViolation reports whether err is a Postgres unique violation on the given constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
