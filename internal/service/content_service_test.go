package service

import (
	"context"
	"database/sql"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/storage"
)

type contentStore struct {
	materials     map[string]*models.Material
	announcements map[string]*models.Announcement
	seq           int
}

func newContentStore() *contentStore {
	return &contentStore{materials: make(map[string]*models.Material), announcements: make(map[string]*models.Announcement)}
}

func (s *contentStore) ListMaterials(ctx context.Context, courseID string) ([]models.Material, error) {
	var out []models.Material
	for _, m := range s.materials {
		if m.CourseID == courseID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *contentStore) FindMaterial(ctx context.Context, id string) (*models.Material, error) {
	m, ok := s.materials[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (s *contentStore) CreateMaterial(ctx context.Context, m *models.Material) error {
	s.seq++
	m.ID = "mat-" + strconv.Itoa(s.seq)
	copied := *m
	s.materials[m.ID] = &copied
	return nil
}

func (s *contentStore) AttachMaterialFile(ctx context.Context, id, fileRef, fileName string, size int64) error {
	m, ok := s.materials[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.FileRef = &fileRef
	m.FileName = &fileName
	m.FileSize = &size
	return nil
}

func (s *contentStore) ListAnnouncements(ctx context.Context, courseID string) ([]dto.AnnouncementItem, error) {
	var out []dto.AnnouncementItem
	for _, a := range s.announcements {
		if a.CourseID == courseID {
			out = append(out, dto.AnnouncementItem{ID: a.ID, CourseID: a.CourseID, Title: a.Title, AuthorID: a.AuthorID})
		}
	}
	return out, nil
}

func (s *contentStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	s.seq++
	a.ID = "ann-" + strconv.Itoa(s.seq)
	copied := *a
	s.announcements[a.ID] = &copied
	return nil
}

func (s *contentStore) DeleteAnnouncement(ctx context.Context, courseID, id string) error {
	a, ok := s.announcements[id]
	if !ok || a.CourseID != courseID {
		return sql.ErrNoRows
	}
	delete(s.announcements, id)
	return nil
}

type contentFixture struct {
	svc     *ContentService
	store   *contentStore
	aakash  *models.Identity
	shrikar *models.Identity
}

func newContentFixture(t *testing.T) contentFixture {
	t.Helper()
	courses := newCourseStore(cs101())
	courses.enroll("course-cs101", "stu-shrikar")
	files, err := storage.NewLocalStorage(t.TempDir(), 1024)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	store := newContentStore()
	return contentFixture{
		svc:     NewContentService(store, courses, files, signer, "/api/v1/files", nil, nil),
		store:   store,
		aakash:  faculty("fac-aakash", "aakash"),
		shrikar: student("stu-shrikar", "shrikar"),
	}
}

func TestContentMaterialUploadAndDownload(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	material, err := f.svc.AddMaterial(ctx, f.aakash, "CS101", dto.CreateMaterialRequest{Title: "Week 1 slides"})
	require.NoError(t, err)

	_, err = f.svc.UploadMaterialFile(ctx, f.aakash, "CS101", material.ID, "slides.txt", strings.NewReader("hello world"))
	require.NoError(t, err)

	items, err := f.svc.ListMaterials(ctx, f.shrikar, "CS101")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, strings.HasPrefix(items[0].DownloadURL, "/api/v1/files/"))
	require.NotNil(t, items[0].DownloadExpiresAt)

	token := strings.TrimPrefix(items[0].DownloadURL, "/api/v1/files/")
	download, err := f.svc.Download(ctx, token)
	require.NoError(t, err)
	defer download.Content.Close()
	body, err := io.ReadAll(download.Content)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(body))
	assert.Equal(t, "slides.txt", download.Name)
	assert.Equal(t, int64(11), download.Size)
}

func TestContentReplacedFileInvalidatesOldLinks(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	material, err := f.svc.AddMaterial(ctx, f.aakash, "CS101", dto.CreateMaterialRequest{Title: "Notes"})
	require.NoError(t, err)

	_, err = f.svc.UploadMaterialFile(ctx, f.aakash, "CS101", material.ID, "v1.txt", strings.NewReader("one"))
	require.NoError(t, err)
	link, err := f.svc.DownloadURL(ctx, f.shrikar, "CS101", material.ID)
	require.NoError(t, err)
	oldToken := strings.TrimPrefix(link.URL, "/api/v1/files/")

	_, err = f.svc.UploadMaterialFile(ctx, f.aakash, "CS101", material.ID, "v2.txt", strings.NewReader("two"))
	require.NoError(t, err)

	_, err = f.svc.Download(ctx, oldToken)
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestContentUploadLimits(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	material, err := f.svc.AddMaterial(ctx, f.aakash, "CS101", dto.CreateMaterialRequest{Title: "Big"})
	require.NoError(t, err)

	_, err = f.svc.UploadMaterialFile(ctx, f.aakash, "CS101", material.ID, "big.bin", strings.NewReader(strings.Repeat("x", 2048)))
	requireAppError(t, err, appErrors.ErrPayloadTooLarge)

	_, err = f.svc.UploadMaterialFile(ctx, f.shrikar, "CS101", material.ID, "a.txt", strings.NewReader("x"))
	requireAppError(t, err, appErrors.ErrRoleMismatch)

	_, err = f.svc.UploadMaterialFile(ctx, f.aakash, "CS101", "mat-missing", "a.txt", strings.NewReader("x"))
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestContentDownloadRejectsBadTokens(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.svc.Download(context.Background(), "garbage")
	requireAppError(t, err, appErrors.ErrForbidden)

	_, err = f.svc.DownloadURL(context.Background(), f.shrikar, "CS101", "mat-missing")
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestContentAnnouncements(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddAnnouncement(ctx, f.shrikar, "CS101", dto.CreateAnnouncementRequest{Title: "x", Description: "y"})
	requireAppError(t, err, appErrors.ErrRoleMismatch)

	ann, err := f.svc.AddAnnouncement(ctx, f.aakash, "CS101", dto.CreateAnnouncementRequest{Title: "Quiz", Description: "Friday"})
	require.NoError(t, err)
	assert.Equal(t, "fac-aakash", ann.AuthorID)

	items, err := f.svc.ListAnnouncements(ctx, f.shrikar, "CS101")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, f.svc.DeleteAnnouncement(ctx, f.aakash, "CS101", ann.ID))
	err = f.svc.DeleteAnnouncement(ctx, f.aakash, "CS101", ann.ID)
	requireAppError(t, err, appErrors.ErrNotFound)

	items, err = f.svc.ListAnnouncements(ctx, f.shrikar, "CS101")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Len(t, items, 0)
}
