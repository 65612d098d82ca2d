package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	require.NotNil(t, err)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestCloneMatchesOriginalWithErrorsIs(t *testing.T) {
	clone := Clone(ErrAlreadyEnrolled, "already there")
	assert.Equal(t, "already there", clone.Message)
	assert.True(t, errors.Is(clone, ErrAlreadyEnrolled))
	assert.False(t, errors.Is(clone, ErrDuplicateSubmission))
	assert.Equal(t, "User is already enrolled in this course", ErrAlreadyEnrolled.Message)
}

func TestFromStorageUniqueViolation(t *testing.T) {
	raw := fmt.Errorf("insert submission: %w", &pq.Error{Code: "23505", Constraint: "submissions_assignment_student_key"})
	err := FromStorage(raw, map[string]*Error{
		"submissions_assignment_student_key": ErrDuplicateSubmission,
	}, "failed to create submission")

	require.NotNil(t, err)
	assert.Equal(t, ErrDuplicateSubmission.Code, err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.True(t, errors.Is(err, ErrDuplicateSubmission))
}

func TestFromStorageUnmappedConstraintIsConflict(t *testing.T) {
	raw := &pq.Error{Code: "23505", Constraint: "other_key"}
	err := FromStorage(raw, nil, "x")
	assert.Equal(t, ErrConflict.Code, err.Code)
}

func TestFromStorageNotNullIsValidation(t *testing.T) {
	raw := &pq.Error{Code: "23502", Column: "course_id"}
	err := FromStorage(raw, nil, "x")
	assert.Equal(t, ErrValidation.Code, err.Code)
	assert.Contains(t, err.Message, "course_id")
}

func TestFromStorageOtherErrorIsInternal(t *testing.T) {
	err := FromStorage(fmt.Errorf("connection reset"), nil, "failed to create course")
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, "failed to create course", err.Message)
}

func TestIsUniqueViolation(t *testing.T) {
	raw := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505", Constraint: "courses_course_code_key"})
	assert.True(t, IsUniqueViolation(raw, "courses_course_code_key"))
	assert.True(t, IsUniqueViolation(raw, ""))
	assert.False(t, IsUniqueViolation(raw, "feedback_account_course_key"))
	assert.False(t, IsUniqueViolation(fmt.Errorf("nope"), ""))
}
