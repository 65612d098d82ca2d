package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/database"
)

const courseColumns = `id, name, course_code, description, faculty_id, created_at, updated_at`

const courseItemSelect = `SELECT c.id, c.name, c.course_code, c.description, c.faculty_id,
TRIM(f.first_name || ' ' || f.last_name) AS faculty_name,
(SELECT COUNT(*) FROM course_enrollments ce WHERE ce.course_id = c.id) AS student_count,
c.created_at `

// CourseRepository persists courses and their rosters.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByCode returns the course with the given code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_code = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	return &course, nil
}

// List returns course listings matching the filter with a total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]dto.CourseItem, int, error) {
	base := `FROM courses c JOIN faculty_profiles f ON f.account_id = c.faculty_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM course_enrollments e WHERE e.course_id = c.id AND e.student_id = $%d)", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.NotStudentID != "" {
		conditions = append(conditions, fmt.Sprintf("NOT EXISTS (SELECT 1 FROM course_enrollments e WHERE e.course_id = c.id AND e.student_id = $%d)", len(args)+1))
		args = append(args, filter.NotStudentID)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("c.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.NotFacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("c.faculty_id <> $%d", len(args)+1))
		args = append(args, filter.NotFacultyID)
	}
	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.course_code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, containsPattern(filter.Search))
	}

	if len(conditions) > 0 {
		base += " WHERE " + strings.Join(conditions, " AND ")
	}

	page, size := normalisePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	listQuery := fmt.Sprintf("%s%s ORDER BY c.course_code ASC LIMIT %d OFFSET %d", courseItemSelect, base, size, offset)
	var items []dto.CourseItem
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return items, total, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, name, course_code, description, faculty_id, created_at, updated_at) VALUES (:id, :name, :course_code, :description, :faculty_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update writes name, code and description.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, course_code = :course_code, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// IsEnrolled reports whether the student is on the course roster.
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM course_enrollments WHERE course_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, courseID, studentID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// Enroll adds the student to the roster and returns the new roster size. The join row is the
// only write, so a failed insert leaves the roster untouched.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, int, error) {
	enrollment := &models.Enrollment{CourseID: courseID, StudentID: studentID, EnrolledAt: time.Now().UTC()}
	var count int
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO course_enrollments (course_id, student_id, enrolled_at) VALUES (:course_id, :student_id, :enrolled_at)`
		if _, err := tx.NamedExecContext(ctx, insert, enrollment); err != nil {
			return fmt.Errorf("enroll student: %w", err)
		}
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM course_enrollments WHERE course_id = $1`, courseID); err != nil {
			return fmt.Errorf("count roster: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return enrollment, count, nil
}

// Roster lists the enrolled students, optionally filtered by first or last name.
func (r *CourseRepository) Roster(ctx context.Context, courseID string, filter models.RosterFilter) ([]dto.RosterEntry, error) {
	query := `SELECT sp.account_id AS student_id, a.username, a.email, sp.first_name, sp.middle_name, sp.last_name, sp.batch, sp.branch, sp.program, ce.enrolled_at
FROM course_enrollments ce
JOIN student_profiles sp ON sp.account_id = ce.student_id
JOIN accounts a ON a.id = sp.account_id
WHERE ce.course_id = $1`
	args := []interface{}{courseID}
	if strings.TrimSpace(filter.Search) != "" {
		query += " AND (LOWER(sp.first_name) LIKE $2 OR LOWER(sp.last_name) LIKE $2)"
		args = append(args, containsPattern(filter.Search))
	}
	query += " ORDER BY sp.last_name ASC, sp.first_name ASC"

	var entries []dto.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return entries, nil
}

// RosterEntry returns one enrolled student.
func (r *CourseRepository) RosterEntry(ctx context.Context, courseID, studentID string) (*dto.RosterEntry, error) {
	const query = `SELECT sp.account_id AS student_id, a.username, a.email, sp.first_name, sp.middle_name, sp.last_name, sp.batch, sp.branch, sp.program, ce.enrolled_at
FROM course_enrollments ce
JOIN student_profiles sp ON sp.account_id = ce.student_id
JOIN accounts a ON a.id = sp.account_id
WHERE ce.course_id = $1 AND ce.student_id = $2`
	var entry dto.RosterEntry
	if err := r.db.GetContext(ctx, &entry, query, courseID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find roster entry: %w", err)
	}
	return &entry, nil
}

// FindItem returns the listing projection of one course.
func (r *CourseRepository) FindItem(ctx context.Context, id string) (*dto.CourseItem, error) {
	query := courseItemSelect + `FROM courses c JOIN faculty_profiles f ON f.account_id = c.faculty_id WHERE c.id = $1`
	var item dto.CourseItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course item: %w", err)
	}
	return &item, nil
}
