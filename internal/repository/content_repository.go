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

const materialColumns = `id, course_id, title, description, file_ref, file_name, file_size, created_at`

// ContentRepository stores course materials and announcements.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListMaterials returns the materials of a course, newest first.
func (r *ContentRepository) ListMaterials(ctx context.Context, courseID string) ([]models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE course_id = $1 ORDER BY created_at DESC`
	var items []models.Material
	if err := r.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return items, nil
}

// FindMaterial returns a material by id.
func (r *ContentRepository) FindMaterial(ctx context.Context, id string) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	var m models.Material
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find material: %w", err)
	}
	return &m, nil
}

// CreateMaterial inserts a material.
func (r *ContentRepository) CreateMaterial(ctx context.Context, m *models.Material) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO materials (id, course_id, title, description, file_ref, file_name, file_size, created_at) VALUES (:id, :course_id, :title, :description, :file_ref, :file_name, :file_size, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// AttachMaterialFile records the stored file backing a material.
func (r *ContentRepository) AttachMaterialFile(ctx context.Context, id, fileRef, fileName string, size int64) error {
	const query = `UPDATE materials SET file_ref = $2, file_name = $3, file_size = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, fileRef, fileName, size)
	if err != nil {
		return fmt.Errorf("attach material file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListAnnouncements returns the announcements of a course, newest first.
func (r *ContentRepository) ListAnnouncements(ctx context.Context, courseID string) ([]dto.AnnouncementItem, error) {
	const query = `SELECT an.id, an.course_id, an.title, an.description, an.author_id,
COALESCE(NULLIF(TRIM(fp.first_name || ' ' || fp.last_name), ''), acc.username) AS author_name, an.created_at
FROM announcements an
JOIN accounts acc ON acc.id = an.author_id
LEFT JOIN faculty_profiles fp ON fp.account_id = an.author_id
WHERE an.course_id = $1
ORDER BY an.created_at DESC`
	var items []dto.AnnouncementItem
	if err := r.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

// CreateAnnouncement inserts an announcement.
func (r *ContentRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO announcements (id, course_id, title, description, author_id, created_at) VALUES (:id, :course_id, :title, :description, :author_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// DeleteAnnouncement removes an announcement belonging to the course.
func (r *ContentRepository) DeleteAnnouncement(ctx context.Context, courseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1 AND course_id = $2`, id, courseID)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
