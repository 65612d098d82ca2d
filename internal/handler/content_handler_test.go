package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/internal/service"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type contentServiceMock struct {
	uploadedName string
	uploaded     []byte
	deleted      string
	downloadErr  error
}

func (m *contentServiceMock) ListMaterials(ctx context.Context, identity *models.Identity, code string) ([]dto.MaterialItem, error) {
	return []dto.MaterialItem{}, nil
}

func (m *contentServiceMock) AddMaterial(ctx context.Context, identity *models.Identity, code string, req dto.CreateMaterialRequest) (*models.Material, error) {
	return &models.Material{ID: "mat-1", Title: req.Title}, nil
}

func (m *contentServiceMock) UploadMaterialFile(ctx context.Context, identity *models.Identity, code, materialID, filename string, r io.Reader) (*models.Material, error) {
	m.uploadedName = filename
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.uploaded = data
	return &models.Material{ID: materialID}, nil
}

func (m *contentServiceMock) DownloadURL(ctx context.Context, identity *models.Identity, code, materialID string) (*dto.DownloadLink, error) {
	return &dto.DownloadLink{URL: "/api/v1/downloads/tok"}, nil
}

func (m *contentServiceMock) Download(ctx context.Context, token string) (*service.FileDownload, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	body := []byte("lecture notes")
	return &service.FileDownload{Content: io.NopCloser(bytes.NewReader(body)), Name: "week1.pdf", Size: int64(len(body))}, nil
}

func (m *contentServiceMock) ListAnnouncements(ctx context.Context, identity *models.Identity, code string) ([]dto.AnnouncementItem, error) {
	return nil, nil
}

func (m *contentServiceMock) AddAnnouncement(ctx context.Context, identity *models.Identity, code string, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	return &models.Announcement{ID: "ann-1"}, nil
}

func (m *contentServiceMock) DeleteAnnouncement(ctx context.Context, identity *models.Identity, code, announcementID string) error {
	m.deleted = announcementID
	return nil
}

func TestContentHandlerDeleteRedirectsBack(t *testing.T) {
	svc := &contentServiceMock{}
	h := NewContentHandler(svc)

	c, w := newContext(t, http.MethodDelete, "/courses/CS101/announcements/ann-1", nil, facultyCaller())
	withParams(c, "code", "CS101", "id", "ann-1")
	c.Request.Header.Set("Referer", "/dashboard/cs101")
	h.DeleteAnnouncement(c)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/cs101", w.Header().Get("Location"))
	assert.Equal(t, "ann-1", svc.deleted)

	c, w = newContext(t, http.MethodDelete, "/courses/CS101/announcements/ann-1", nil, facultyCaller())
	withParams(c, "code", "CS101", "id", "ann-1")
	h.DeleteAnnouncement(c)
	assert.Equal(t, "/courses/CS101/announcements", w.Header().Get("Location"))
}

func TestContentHandlerUploadMultipart(t *testing.T) {
	svc := &contentServiceMock{}
	h := NewContentHandler(svc)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "week1.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	c, w := newContext(t, http.MethodPut, "/courses/CS101/materials/mat-1/file", nil, facultyCaller())
	c.Request = httptest.NewRequest(http.MethodPut, "/courses/CS101/materials/mat-1/file", &body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	withParams(c, "code", "CS101", "id", "mat-1")
	h.UploadFile(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "week1.pdf", svc.uploadedName)
	assert.Equal(t, []byte("%PDF-1.4"), svc.uploaded)
}

func TestContentHandlerUploadRequiresFile(t *testing.T) {
	h := NewContentHandler(&contentServiceMock{})

	c, w := newContext(t, http.MethodPut, "/courses/CS101/materials/mat-1/file", `{}`, facultyCaller())
	withParams(c, "code", "CS101", "id", "mat-1")
	h.UploadFile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContentHandlerDownloadStreams(t *testing.T) {
	h := NewContentHandler(&contentServiceMock{})

	c, w := newContext(t, http.MethodGet, "/downloads/tok", nil, nil)
	withParams(c, "token", "tok")
	h.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lecture notes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="week1.pdf"`)
}

func TestContentHandlerDownloadForbidden(t *testing.T) {
	h := NewContentHandler(&contentServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "download link expired")})

	c, w := newContext(t, http.MethodGet, "/downloads/old", nil, nil)
	withParams(c, "token", "old")
	h.Download(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
