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

const assignmentColumns = `id, course_id, name, description, due_at, max_grade, attachment_ref, created_at, updated_at`

const submissionColumns = `id, assignment_id, student_id, work, graded, grade, feedback, submitted_at, updated_at`

const submissionItemSelect = `SELECT s.id, s.assignment_id, a.name AS assignment_name, a.due_at, a.max_grade,
s.student_id, acc.username, TRIM(sp.first_name || ' ' || sp.last_name) AS student_name,
s.work, s.graded, s.grade, s.feedback, s.submitted_at, s.updated_at
FROM submissions s
JOIN assignments a ON a.id = s.assignment_id
JOIN student_profiles sp ON sp.account_id = s.student_id
JOIN accounts acc ON acc.id = s.student_id`

// AssignmentRepository persists assignments and the submissions made against them.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByCourse returns every assignment in a course ordered by due date.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE course_id = $1 ORDER BY due_at ASC, name ASC`
	var items []models.Assignment
	if err := r.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return items, nil
}

// FindByName returns the assignment with the given name within a course.
func (r *AssignmentRepository) FindByName(ctx context.Context, courseID, name string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE course_id = $1 AND name = $2 LIMIT 1`
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, courseID, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &a, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	const query = `INSERT INTO assignments (id, course_id, name, description, due_at, max_grade, attachment_ref, created_at, updated_at) VALUES (:id, :course_id, :name, :description, :due_at, :max_grade, :attachment_ref, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update writes the mutable assignment fields.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET name = :name, description = :description, due_at = :due_at, max_grade = :max_grade, attachment_ref = :attachment_ref, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment. Its submissions go with it through ON DELETE CASCADE.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountSubmissions returns the number of submissions per assignment in a course.
func (r *AssignmentRepository) CountSubmissions(ctx context.Context, courseID string) (map[string]int, error) {
	const query = `SELECT a.id AS assignment_id, COUNT(s.id) AS total FROM assignments a LEFT JOIN submissions s ON s.assignment_id = a.id WHERE a.course_id = $1 GROUP BY a.id`
	var rows []struct {
		AssignmentID string `db:"assignment_id"`
		Total        int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.AssignmentID] = row.Total
	}
	return counts, nil
}

// FindSubmission returns the submission of a student for an assignment.
func (r *AssignmentRepository) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE assignment_id = $1 AND student_id = $2 LIMIT 1`
	var s models.Submission
	if err := r.db.GetContext(ctx, &s, query, assignmentID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &s, nil
}

// FindSubmissionByID returns a submission by identifier.
func (r *AssignmentRepository) FindSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 LIMIT 1`
	var s models.Submission
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &s, nil
}

// CreateSubmission inserts a submission. The (assignment, student) unique constraint rejects a second one.
func (r *AssignmentRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.SubmittedAt = now
	s.UpdatedAt = now
	s.Graded = false
	s.Grade = nil
	const query = `INSERT INTO submissions (id, assignment_id, student_id, work, graded, grade, feedback, submitted_at, updated_at) VALUES (:id, :assignment_id, :student_id, :work, :graded, :grade, :feedback, :submitted_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// UpdateWork replaces the work of a submission and stamps updated_at.
func (r *AssignmentRepository) UpdateWork(ctx context.Context, s *models.Submission) error {
	s.UpdatedAt = time.Now().UTC()
	const query = `UPDATE submissions SET work = :work, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return nil
}

// Grade records a grade and optional feedback. updated_at is left alone so the turn-in time is preserved.
func (r *AssignmentRepository) Grade(ctx context.Context, id string, grade float64, feedback *string) error {
	const query = `UPDATE submissions SET grade = $2, graded = TRUE, feedback = COALESCE($3, feedback) WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, grade, feedback)
	if err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListSubmissions returns submissions for an assignment ordered by student name.
func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID string) ([]dto.SubmissionItem, error) {
	query := submissionItemSelect + ` WHERE s.assignment_id = $1 ORDER BY sp.last_name ASC, sp.first_name ASC`
	var items []dto.SubmissionItem
	if err := r.db.SelectContext(ctx, &items, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return items, nil
}

// ListStudentSubmissions returns a student's submissions in a course.
func (r *AssignmentRepository) ListStudentSubmissions(ctx context.Context, courseID, studentID string) ([]dto.SubmissionItem, error) {
	query := submissionItemSelect + ` WHERE a.course_id = $1 AND s.student_id = $2 ORDER BY a.due_at ASC`
	var items []dto.SubmissionItem
	if err := r.db.SelectContext(ctx, &items, query, courseID, studentID); err != nil {
		return nil, fmt.Errorf("list student submissions: %w", err)
	}
	return items, nil
}

// ListCourseSubmissions returns every submission in a course for the gradebook.
func (r *AssignmentRepository) ListCourseSubmissions(ctx context.Context, courseID string) ([]dto.SubmissionItem, error) {
	query := submissionItemSelect + ` WHERE a.course_id = $1 ORDER BY sp.last_name ASC, sp.first_name ASC, a.due_at ASC`
	var items []dto.SubmissionItem
	if err := r.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, fmt.Errorf("list course submissions: %w", err)
	}
	return items, nil
}
