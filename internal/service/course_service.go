package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/storage"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ListSections(ctx context.Context, courseID string) ([]models.Section, error)
	CreateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id string) error
}

// CreateCourseRequest captures fields for creating courses.
type CreateCourseRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Units       int    `json:"units" validate:"required,min=1,max=6"`
	CreatedBy   string `json:"-"`
}

// UpdateCourseRequest modifies course fields.
type UpdateCourseRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Units       int    `json:"units" validate:"required,min=1,max=6"`
}

// CreateSectionRequest captures fields for creating sections under a course.
type CreateSectionRequest struct {
	Name       string `json:"name" validate:"required"`
	Capacity   int    `json:"capacity" validate:"required,min=1"`
	Schedule   string `json:"schedule"`
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

// CourseService handles course and section workflows, including image
// resolution through transient downloaded blobs.
type CourseService struct {
	repo      courseRepository
	store     storage.ObjectStore
	tracker   *storage.BlobTracker
	bucket    string
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a course service.
func NewCourseService(repo courseRepository, store storage.ObjectStore, tracker *storage.BlobTracker, bucket string, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, store: store, tracker: tracker, bucket: bucket, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns the filtered course view with images resolved to transient
// blob URLs. Previously tracked blobs are released first so handles never
// outlive the list they were resolved for.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, appErrors.WrapStore(err, "failed to list courses")
	}

	if s.tracker != nil {
		s.tracker.ReleaseAll()
	}
	for i := range courses {
		s.resolveImage(ctx, &courses[i])
	}

	filtered := FilterCourses(courses, filter)
	pagination := &models.Pagination{Page: 1, PageSize: len(filtered), TotalCount: len(courses)}
	return filtered, pagination, nil
}

// resolveImage downloads the course image and exposes it as a tracked blob
// URL. Any failure degrades to no image; rendering is never blocked.
func (s *CourseService) resolveImage(ctx context.Context, course *models.Course) {
	if course.ImageRef == nil || s.tracker == nil {
		return
	}
	ref := *course.ImageRef
	if storage.IsDataURI(ref) {
		course.ImageURL = &ref
		return
	}
	path := storage.ExtractObjectPath(ref, s.bucket)
	if path == "" {
		return
	}
	data, err := s.store.Download(ctx, path)
	if err != nil {
		s.logger.Debug("course image download failed", zap.String("course_id", course.ID), zap.Error(err))
		return
	}
	url, err := s.tracker.Acquire(data, "image/*")
	if err != nil {
		s.logger.Debug("course image blob failed", zap.String("course_id", course.ID), zap.Error(err))
		return
	}
	course.ImageURL = &url
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.WrapStore(err, "failed to load course")
	}
	return course, nil
}

// Create adds a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Units:       req.Units,
		CreatedBy:   req.CreatedBy,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.WrapStore(err, "failed to create course")
	}

	s.invalidate(ctx)
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Code = req.Code
	course.Name = req.Name
	course.Description = req.Description
	course.Units = req.Units

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.WrapStore(err, "failed to update course")
	}

	s.invalidate(ctx)
	return course, nil
}

// UploadImage stores the course image and records the object path.
func (s *CourseService) UploadImage(ctx context.Context, id, filename, contentType string, data []byte) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("courses/%s/%s", id, filename)
	opts := storage.UploadOptions{ContentType: contentType, CacheControl: "3600", Upsert: true}
	if err := s.store.Upload(ctx, path, data, opts); err != nil {
		return nil, appErrors.WrapStore(err, "failed to upload course image")
	}

	course.ImageRef = &path
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.WrapStore(err, "failed to record course image")
	}

	s.invalidate(ctx)
	return course, nil
}

// Delete removes a course; the store cascades its sections. The stored image
// is removed best effort afterwards.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapStore(err, "failed to delete course")
	}

	if course.ImageRef != nil && !storage.IsDataURI(*course.ImageRef) {
		if path := storage.ExtractObjectPath(*course.ImageRef, s.bucket); path != "" {
			if err := s.store.Remove(ctx, []string{path}); err != nil {
				s.logger.Warn("course image cleanup failed",
					zap.String("course_id", id),
					zap.String("path", path),
					zap.Error(err))
				s.metrics.RecordSoftWarning("course_image_delete")
			}
		}
	}

	s.invalidate(ctx)
	return nil
}

// ListSections returns the sections of one course.
func (s *CourseService) ListSections(ctx context.Context, courseID string) ([]models.Section, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	sections, err := s.repo.ListSections(ctx, courseID)
	if err != nil {
		return nil, appErrors.WrapStore(err, "failed to list sections")
	}
	return sections, nil
}

// CreateSection adds a section under a course.
func (s *CourseService) CreateSection(ctx context.Context, courseID string, req CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID:   courseID,
		Name:       req.Name,
		Capacity:   req.Capacity,
		Schedule:   req.Schedule,
		Room:       req.Room,
		Instructor: req.Instructor,
	}

	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, appErrors.WrapStore(err, "failed to create section")
	}

	s.invalidate(ctx)
	return section, nil
}

// DeleteSection removes one section.
func (s *CourseService) DeleteSection(ctx context.Context, id string) error {
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return appErrors.WrapStore(err, "failed to delete section")
	}
	s.invalidate(ctx)
	return nil
}

// Close releases every tracked blob handle. Called on shutdown.
func (s *CourseService) Close() {
	if s.tracker != nil {
		s.tracker.ReleaseAll()
	}
}

// Course lists are never cached (blob URLs are process local), so only the
// dashboard counters need invalidating after a write.
func (s *CourseService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cachePatternDashboard)
}
