package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

func TestAssignmentCreateDuplicateName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "assignments_course_name_key"})

	err := repo.Create(context.Background(), &models.Assignment{CourseID: "c1", Name: "Assignment 1", DueAt: time.Now(), MaxGrade: 10})
	require.Error(t, err)
	assert.True(t, appErrors.IsUniqueViolation(err, "assignments_course_name_key"))
}

func TestAssignmentFindByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	due := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "course_id", "name", "description", "due_at", "max_grade", "attachment_ref", "created_at", "updated_at"}).
		AddRow("as1", "c1", "Assignment 1", "", due, "10.00", nil, due, due)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE course_id = $1 AND name = $2 LIMIT 1")).
		WithArgs("c1", "Assignment 1").
		WillReturnRows(rows)

	a, err := repo.FindByName(context.Background(), "c1", "Assignment 1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, a.MaxGrade)
	assert.Nil(t, a.AttachmentRef)
}

func TestAssignmentDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
}

func TestAssignmentDeleteLeavesSubmissionsToSchema(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE id = $1")).
		WithArgs("as1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "as1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubmissionResetsGrade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO submissions").WillReturnResult(sqlmock.NewResult(1, 1))

	grade := 9.0
	sub := &models.Submission{AssignmentID: "as1", StudentID: "s1", Work: "answer", Graded: true, Grade: &grade}
	require.NoError(t, repo.CreateSubmission(context.Background(), sub))
	assert.False(t, sub.Graded)
	assert.Nil(t, sub.Grade)
	assert.Equal(t, sub.SubmittedAt, sub.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeSubmission(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	feedback := "Well done"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions SET grade = $2, graded = TRUE, feedback = COALESCE($3, feedback) WHERE id = $1")).
		WithArgs("sub1", 8.5, &feedback).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Grade(context.Background(), "sub1", 8.5, &feedback))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSubmissions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "assignment_id", "assignment_name", "due_at", "max_grade", "student_id", "username", "student_name", "work", "graded", "grade", "feedback", "submitted_at", "updated_at"}).
		AddRow("sub1", "as1", "Assignment 1", now, 10.0, "s1", "shrikar", "Shrikar Rao", "answer", false, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.assignment_id = $1 ORDER BY sp.last_name ASC")).
		WithArgs("as1").
		WillReturnRows(rows)

	items, err := repo.ListSubmissions(context.Background(), "as1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shrikar Rao", items[0].StudentName)
}
