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

func TestListQueriesForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDiscussionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "student_id", "student_name", "question", "reply", "replied_at", "created_at"}).
		AddRow("q1", "c1", "s1", "Shrikar Rao", "When is the quiz?", "Friday", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE q.course_id = $1 AND q.student_id = $2 ORDER BY q.created_at DESC")).
		WithArgs("c1", "s1").
		WillReturnRows(rows)

	items, err := repo.ListQueries(context.Background(), "c1", "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Reply)
	assert.Equal(t, "Friday", *items[0].Reply)
}

func TestSetReplyOverwrites(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDiscussionRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE queries SET reply = $2, replied_at = $3 WHERE id = $1")).
		WithArgs("q1", "second answer", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetReply(context.Background(), "q1", "second answer", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFeedbackDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDiscussionRepository(db)

	mock.ExpectExec("INSERT INTO feedback").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "feedback_account_course_key"})

	err := repo.CreateFeedback(context.Background(), &models.Feedback{AccountID: "s1", CourseID: "c1", Comment: "great"})
	assert.True(t, appErrors.IsUniqueViolation(err, "feedback_account_course_key"))
}

func TestFindFeedbackMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDiscussionRepository(db)

	mock.ExpectQuery("FROM feedback WHERE account_id = \\$1 AND course_id = \\$2").
		WithArgs("s1", "c1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindFeedback(context.Background(), "s1", "c1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
