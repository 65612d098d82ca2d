package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTurnInStatusBoundary(t *testing.T) {
	due := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, TurnInOnTime, ComputeTurnInStatus(due.Add(-time.Hour), due))
	assert.Equal(t, TurnInOnTime, ComputeTurnInStatus(due, due))
	assert.Equal(t, TurnInLate, ComputeTurnInStatus(due.Add(time.Nanosecond), due))
}

func TestSubmissionStatusFollowsLatestEdit(t *testing.T) {
	due := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	sub := Submission{SubmittedAt: due.Add(-24 * time.Hour)}
	assert.Equal(t, TurnInOnTime, sub.Status(due))

	sub.UpdatedAt = due.Add(time.Hour)
	assert.Equal(t, TurnInLate, sub.Status(due))
	assert.Equal(t, SubmissionLate, sub.State(due))

	sub.Graded = true
	assert.Equal(t, SubmissionGraded, sub.State(due))
}

func TestLoginEntryRole(t *testing.T) {
	role, ok := LoginEntryFaculty.Role()
	assert.True(t, ok)
	assert.Equal(t, RoleFaculty, role)

	_, ok = LoginEntry("admin").Role()
	assert.False(t, ok)
}

func TestProfileFullName(t *testing.T) {
	p := StudentProfile{FirstName: "Shrikar", LastName: "Rao"}
	assert.Equal(t, "Shrikar Rao", p.FullName())
	f := FacultyProfile{FirstName: "Aakash", MiddleName: " ", LastName: "Verma"}
	assert.Equal(t, "Aakash Verma", f.FullName())
}
