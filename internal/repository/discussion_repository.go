package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
)

// DiscussionRepository stores course queries and course feedback.
type DiscussionRepository struct {
	db *sqlx.DB
}

// NewDiscussionRepository constructs the repository.
func NewDiscussionRepository(db *sqlx.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// ListQueries returns a course's queries, newest first. A non-empty studentID limits the
// result to that student's questions.
func (r *DiscussionRepository) ListQueries(ctx context.Context, courseID, studentID string) ([]dto.QueryItem, error) {
	query := `SELECT q.id, q.course_id, q.student_id, TRIM(sp.first_name || ' ' || sp.last_name) AS student_name,
q.question, q.reply, q.replied_at, q.created_at
FROM queries q
JOIN student_profiles sp ON sp.account_id = q.student_id
WHERE q.course_id = $1`
	args := []interface{}{courseID}
	if studentID != "" {
		query += " AND q.student_id = $2"
		args = append(args, studentID)
	}
	query += " ORDER BY q.created_at DESC"

	var items []dto.QueryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return items, nil
}

// FindQuery returns a query by id.
func (r *DiscussionRepository) FindQuery(ctx context.Context, id string) (*models.Query, error) {
	const query = `SELECT id, course_id, student_id, question, reply, replied_at, created_at FROM queries WHERE id = $1`
	var q models.Query
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find query: %w", err)
	}
	return &q, nil
}

// CreateQuery inserts an unanswered query.
func (r *DiscussionRepository) CreateQuery(ctx context.Context, q *models.Query) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = time.Now().UTC()
	q.Reply = nil
	q.RepliedAt = nil
	const query = `INSERT INTO queries (id, course_id, student_id, question, reply, replied_at, created_at) VALUES (:id, :course_id, :student_id, :question, :reply, :replied_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, q); err != nil {
		return fmt.Errorf("create query: %w", err)
	}
	return nil
}

// SetReply overwrites the reply of a query.
func (r *DiscussionRepository) SetReply(ctx context.Context, id, reply string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE queries SET reply = $2, replied_at = $3 WHERE id = $1`, id, reply, at)
	if err != nil {
		return fmt.Errorf("reply query: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateFeedback inserts feedback. The (account, course) unique constraint rejects a second entry.
func (r *DiscussionRepository) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO feedback (id, account_id, course_id, comment, created_at) VALUES (:id, :account_id, :course_id, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// FindFeedback returns the feedback an account left on a course.
func (r *DiscussionRepository) FindFeedback(ctx context.Context, accountID, courseID string) (*models.Feedback, error) {
	const query = `SELECT id, account_id, course_id, comment, created_at FROM feedback WHERE account_id = $1 AND course_id = $2`
	var f models.Feedback
	if err := r.db.GetContext(ctx, &f, query, accountID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return &f, nil
}

// ListFeedback returns all feedback of a course, newest first.
func (r *DiscussionRepository) ListFeedback(ctx context.Context, courseID string) ([]dto.FeedbackItem, error) {
	const query = `SELECT f.id, f.account_id, a.username, f.comment, f.created_at
FROM feedback f
JOIN accounts a ON a.id = f.account_id
WHERE f.course_id = $1
ORDER BY f.created_at DESC`
	var items []dto.FeedbackItem
	if err := r.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}
