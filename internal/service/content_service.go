package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
	"github.com/noah-isme/academix-api/pkg/storage"
)

type contentRepository interface {
	ListMaterials(ctx context.Context, courseID string) ([]models.Material, error)
	FindMaterial(ctx context.Context, id string) (*models.Material, error)
	CreateMaterial(ctx context.Context, m *models.Material) error
	AttachMaterialFile(ctx context.Context, id, fileRef, fileName string, size int64) error
	ListAnnouncements(ctx context.Context, courseID string) ([]dto.AnnouncementItem, error)
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, courseID, id string) error
}

type fileStore interface {
	Save(prefix, filename string, r io.Reader) (string, int64, error)
	Open(key string) (*os.File, error)
	Delete(key string) error
}

type downloadSigner interface {
	Generate(resourceID, key string) (string, time.Time, error)
	Parse(token string) (resourceID, key string, err error)
}

// FileDownload is an opened stored file. Callers must close Content.
type FileDownload struct {
	Content io.ReadCloser
	Name    string
	Size    int64
}

// ContentService manages course materials and announcements.
type ContentService struct {
	repo         contentRepository
	access       courseAccess
	files        fileStore
	signer       downloadSigner
	downloadPath string
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewContentService constructs a ContentService. downloadPath is the route prefix download
// tokens are appended to, e.g. "/api/v1/files/".
func NewContentService(repo contentRepository, courses courseLookup, files fileStore, signer downloadSigner, downloadPath string, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !strings.HasSuffix(downloadPath, "/") {
		downloadPath += "/"
	}
	return &ContentService{
		repo:         repo,
		access:       courseAccess{courses: courses},
		files:        files,
		signer:       signer,
		downloadPath: downloadPath,
		validator:    validate,
		logger:       logger,
	}
}

// ListMaterials returns a course's materials with fresh download links for attached files.
func (s *ContentService) ListMaterials(ctx context.Context, identity *models.Identity, code string) ([]dto.MaterialItem, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	materials, err := s.repo.ListMaterials(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}

	items := make([]dto.MaterialItem, 0, len(materials))
	for _, m := range materials {
		item := dto.MaterialItem{Material: m}
		if m.HasFile() {
			if link, err := s.link(m); err == nil {
				item.DownloadURL = link.URL
				expires := link.ExpiresAt
				item.DownloadExpiresAt = &expires
			} else {
				s.logger.Warn("failed to sign material link", zap.String("material_id", m.ID), zap.Error(err))
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// AddMaterial posts a material to a course the caller teaches.
func (s *ContentService) AddMaterial(ctx context.Context, identity *models.Identity, code string, req dto.CreateMaterialRequest) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	material := &models.Material{
		CourseID:    course.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateMaterial(ctx, material); err != nil {
		return nil, appErrors.FromStorage(err, nil, "failed to create material")
	}
	return material, nil
}

// UploadMaterialFile stores a file and attaches it to a material, replacing any previous file.
func (s *ContentService) UploadMaterialFile(ctx context.Context, identity *models.Identity, code, materialID, filename string, r io.Reader) (*models.Material, error) {
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	material, err := s.material(ctx, course.ID, materialID)
	if err != nil {
		return nil, err
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}
	key, size, err := s.files.Save(filepath.Join("materials", course.ID), filename, r)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	if err := s.repo.AttachMaterialFile(ctx, material.ID, key, filename, size); err != nil {
		if delErr := s.files.Delete(key); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach file")
	}

	if material.HasFile() {
		if err := s.files.Delete(*material.FileRef); err != nil {
			s.logger.Warn("failed to remove replaced upload", zap.String("key", *material.FileRef), zap.Error(err))
		}
	}
	material.FileRef = &key
	material.FileName = &filename
	material.FileSize = &size
	return material, nil
}

// DownloadURL returns a signed, expiring link to a material's file.
func (s *ContentService) DownloadURL(ctx context.Context, identity *models.Identity, code, materialID string) (*dto.DownloadLink, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	material, err := s.material(ctx, course.ID, materialID)
	if err != nil {
		return nil, err
	}
	if !material.HasFile() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "material has no file")
	}
	link, err := s.link(*material)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return link, nil
}

// Download opens the file a signed token grants access to.
func (s *ContentService) Download(ctx context.Context, token string) (*FileDownload, error) {
	materialID, key, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}

	material, err := s.repo.FindMaterial(ctx, materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	// a replaced file invalidates links issued for the old one
	if !material.HasFile() || *material.FileRef != key {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}

	file, err := s.files.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}

	download := &FileDownload{Content: file, Name: filepath.Base(key)}
	if material.FileName != nil {
		download.Name = *material.FileName
	}
	if material.FileSize != nil {
		download.Size = *material.FileSize
	}
	return download, nil
}

// ListAnnouncements returns a course's announcements, newest first.
func (s *ContentService) ListAnnouncements(ctx context.Context, identity *models.Identity, code string) ([]dto.AnnouncementItem, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListAnnouncements(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	if items == nil {
		items = []dto.AnnouncementItem{}
	}
	return items, nil
}

// AddAnnouncement posts an announcement to a course the caller teaches.
func (s *ContentService) AddAnnouncement(ctx context.Context, identity *models.Identity, code string, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	announcement := &models.Announcement{
		CourseID:    course.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		AuthorID:    identity.AccountID,
	}
	if err := s.repo.CreateAnnouncement(ctx, announcement); err != nil {
		return nil, appErrors.FromStorage(err, nil, "failed to create announcement")
	}
	return announcement, nil
}

// DeleteAnnouncement removes an announcement from a course the caller teaches.
func (s *ContentService) DeleteAnnouncement(ctx context.Context, identity *models.Identity, code, announcementID string) error {
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAnnouncement(ctx, course.ID, announcementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

func (s *ContentService) material(ctx context.Context, courseID, materialID string) (*models.Material, error) {
	material, err := s.repo.FindMaterial(ctx, materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material.CourseID != courseID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}
	return material, nil
}

func (s *ContentService) link(m models.Material) (*dto.DownloadLink, error) {
	token, expiresAt, err := s.signer.Generate(m.ID, *m.FileRef)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadLink{URL: s.downloadPath + token, ExpiresAt: expiresAt}, nil
}
