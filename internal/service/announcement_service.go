package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/storage"
)

type announcementRepository interface {
	List(ctx context.Context) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CreateAnnouncementRequest captures fields for creating announcements.
type CreateAnnouncementRequest struct {
	Title       string                      `json:"title" validate:"required"`
	Content     string                      `json:"content" validate:"required"`
	Author      string                      `json:"author" validate:"required"`
	DisplayDate time.Time                   `json:"display_date" validate:"required"`
	Priority    models.AnnouncementPriority `json:"priority" validate:"required,oneof=low medium high"`
	Category    string                      `json:"category"`
	ImageRef    *string                     `json:"image_ref"`
	Active      bool                        `json:"active"`
}

// UpdateAnnouncementRequest modifies announcement fields.
type UpdateAnnouncementRequest struct {
	Title       string                      `json:"title" validate:"required"`
	Content     string                      `json:"content" validate:"required"`
	Author      string                      `json:"author" validate:"required"`
	DisplayDate time.Time                   `json:"display_date" validate:"required"`
	Priority    models.AnnouncementPriority `json:"priority" validate:"required,oneof=low medium high"`
	Category    string                      `json:"category"`
	ImageRef    *string                     `json:"image_ref"`
}

// AnnouncementService handles announcement management workflows.
type AnnouncementService struct {
	repo      announcementRepository
	store     storage.ObjectStore
	bucket    string
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService creates an announcement service.
func NewAnnouncementService(repo announcementRepository, store storage.ObjectStore, bucket string, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, store: store, bucket: bucket, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns the filtered announcement view. Pagination.TotalCount carries
// the unfiltered count so clients can tell "no data" from "no match".
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error) {
	var announcements []models.Announcement
	hit, _ := s.cache.Get(ctx, cacheKeyAnnouncements, &announcements)
	if !hit {
		var err error
		announcements, err = s.repo.List(ctx)
		if err != nil {
			return nil, nil, appErrors.WrapStore(err, "failed to list announcements")
		}
		_ = s.cache.Set(ctx, cacheKeyAnnouncements, announcements, 0)
	}

	filtered := FilterAnnouncements(announcements, filter)
	pagination := &models.Pagination{Page: 1, PageSize: len(filtered), TotalCount: len(announcements)}
	return filtered, pagination, nil
}

// Get returns an announcement by identifier.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.WrapStore(err, "failed to load announcement")
	}
	return announcement, nil
}

// Create adds a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement := &models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		Author:      req.Author,
		DisplayDate: req.DisplayDate,
		Priority:    req.Priority,
		Category:    req.Category,
		ImageRef:    req.ImageRef,
		Active:      req.Active,
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.WrapStore(err, "failed to create announcement")
	}

	s.invalidate(ctx)
	return announcement, nil
}

// Update modifies an existing announcement.
func (s *AnnouncementService) Update(ctx context.Context, id string, req UpdateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	announcement.Title = req.Title
	announcement.Content = req.Content
	announcement.Author = req.Author
	announcement.DisplayDate = req.DisplayDate
	announcement.Priority = req.Priority
	announcement.Category = req.Category
	announcement.ImageRef = req.ImageRef

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.WrapStore(err, "failed to update announcement")
	}

	s.invalidate(ctx)
	return announcement, nil
}

// Toggle sets the active flag of a single announcement.
func (s *AnnouncementService) Toggle(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.WrapStore(err, "failed to toggle announcement")
	}
	s.invalidate(ctx)
	return nil
}

// UploadImage stores the banner and records the object path on the row.
func (s *AnnouncementService) UploadImage(ctx context.Context, id, filename, contentType string, data []byte) (*models.Announcement, error) {
	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("announcements/%s/%s", id, filename)
	opts := storage.UploadOptions{ContentType: contentType, CacheControl: "3600", Upsert: true}
	if err := s.store.Upload(ctx, path, data, opts); err != nil {
		return nil, appErrors.WrapStore(err, "failed to upload banner image")
	}

	announcement.ImageRef = &path
	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.WrapStore(err, "failed to record banner image")
	}

	s.invalidate(ctx)
	return announcement, nil
}

// Delete removes an announcement, then best-effort removes its storage-backed
// banner. A storage failure is a soft warning and never reverses the row
// delete.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	announcement, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapStore(err, "failed to delete announcement")
	}

	if announcement.ImageRef != nil && !storage.IsDataURI(*announcement.ImageRef) {
		if path := storage.ExtractObjectPath(*announcement.ImageRef, s.bucket); path != "" {
			if err := s.store.Remove(ctx, []string{path}); err != nil {
				s.logger.Warn("banner image cleanup failed",
					zap.String("announcement_id", id),
					zap.String("path", path),
					zap.Error(err))
				s.metrics.RecordSoftWarning("announcement_image_delete")
			}
		}
	}

	s.invalidate(ctx)
	return nil
}

func (s *AnnouncementService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKeyAnnouncements)
	s.cache.Invalidate(ctx, cachePatternDashboard)
}
