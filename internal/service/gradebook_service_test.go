package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type gradebookStore struct {
	assignments []models.Assignment
	rows        []dto.SubmissionItem
}

func (s *gradebookStore) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	return s.assignments, nil
}

func (s *gradebookStore) ListCourseSubmissions(ctx context.Context, courseID string) ([]dto.SubmissionItem, error) {
	return s.rows, nil
}

func newGradebookFixture() *GradebookService {
	due := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	grade := 8.5
	store := &gradebookStore{
		assignments: []models.Assignment{{ID: "asg-1", Name: "Assignment 1", DueAt: due, MaxGrade: 10}},
		rows: []dto.SubmissionItem{
			{ID: "sub-1", AssignmentID: "asg-1", AssignmentName: "Assignment 1", DueAt: due, MaxGrade: 10, StudentID: "stu-priya", Username: "priya", StudentName: "Priya Shah", Work: "w", SubmittedAt: due.Add(time.Hour)},
			{ID: "sub-2", AssignmentID: "asg-1", AssignmentName: "Assignment 1", DueAt: due, MaxGrade: 10, StudentID: "stu-shrikar", Username: "shrikar", StudentName: "Shrikar Rao", Work: "w", Graded: true, Grade: &grade, SubmittedAt: due.Add(-time.Hour)},
		},
	}
	svc := NewGradebookService(store, newCourseStore(cs101()), nil)
	svc.now = func() time.Time { return due }
	return svc
}

func TestGradebookAnnotatesRows(t *testing.T) {
	svc := newGradebookFixture()

	book, err := svc.Gradebook(context.Background(), faculty("fac-aakash", "aakash"), "CS101")
	require.NoError(t, err)
	assert.Equal(t, []string{"Assignment 1"}, book.Assignments)
	require.Len(t, book.Rows, 2)
	assert.Equal(t, models.TurnInLate, book.Rows[0].Status)
	assert.Equal(t, models.SubmissionGraded, book.Rows[1].State)
}

func TestGradebookOwnerOnly(t *testing.T) {
	svc := newGradebookFixture()

	_, err := svc.Gradebook(context.Background(), faculty("fac-other", "other"), "CS101")
	requireAppError(t, err, appErrors.ErrForbidden)

	_, err = svc.Export(context.Background(), student("stu-shrikar", "shrikar"), "CS101", "csv")
	requireAppError(t, err, appErrors.ErrRoleMismatch)
}

func TestGradebookExportCSV(t *testing.T) {
	svc := newGradebookFixture()

	file, err := svc.Export(context.Background(), faculty("fac-aakash", "aakash"), "CS101", "csv")
	require.NoError(t, err)
	assert.Equal(t, "cs101-gradebook.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, gradebookColumns, records[0])
	assert.Equal(t, []string{"Shrikar Rao", "shrikar", "Assignment 1", "Turned in", "true", "8.5", "10", "2023-11-30T23:00:00Z"}, records[2])
}

func TestGradebookExportPDF(t *testing.T) {
	svc := newGradebookFixture()

	file, err := svc.Export(context.Background(), faculty("fac-aakash", "aakash"), "CS101", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestGradebookExportUnknownFormat(t *testing.T) {
	svc := newGradebookFixture()

	_, err := svc.Export(context.Background(), faculty("fac-aakash", "aakash"), "CS101", "xlsx")
	requireAppError(t, err, appErrors.ErrValidation)
}
