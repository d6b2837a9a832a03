package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
)

type teacherSubjectRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.RawTeacherSubject, error)
	Create(ctx context.Context, subject *models.TeacherSubject) error
	Delete(ctx context.Context, id string) error
}

// CreateTeacherSubjectRequest assigns an instructor to a course section.
type CreateTeacherSubjectRequest struct {
	InstructorID string `json:"instructor_id" validate:"required"`
	CourseID     string `json:"course_id" validate:"required"`
	SectionName  string `json:"section_name" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
}

// TeacherSubjectService resolves instructor subject assignments with their
// joined course normalized to one shape.
type TeacherSubjectService struct {
	repo      teacherSubjectRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherSubjectService creates a teacher subject service. A zero cacheTTL
// falls back to the cache default.
func NewTeacherSubjectService(repo teacherSubjectRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *TeacherSubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherSubjectService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// ListByInstructor returns active assignments for one instructor. Rows whose
// joined course cannot be decoded keep a nil course rather than failing the
// whole list.
func (s *TeacherSubjectService) ListByInstructor(ctx context.Context, instructorID string) ([]models.TeacherSubjectDetail, error) {
	key := cacheKeySubjectPrefix + instructorID

	var details []models.TeacherSubjectDetail
	if hit, _ := s.cache.Get(ctx, key, &details); hit {
		return details, nil
	}

	raws, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.WrapStore(err, "failed to list instructor subjects")
	}

	details = make([]models.TeacherSubjectDetail, 0, len(raws))
	for _, raw := range raws {
		course, err := normalizeCourse(raw.Course)
		if err != nil {
			s.logger.Warn("joined course decode failed",
				zap.String("subject_id", raw.ID),
				zap.Error(err))
		}
		details = append(details, models.TeacherSubjectDetail{TeacherSubject: raw.TeacherSubject, Course: course})
	}

	_ = s.cache.Set(ctx, key, details, s.cacheTTL)
	return details, nil
}

// normalizeCourse accepts the joined course either as a single JSON object or
// as a one-element array and returns one nullable shape.
func normalizeCourse(raw json.RawMessage) (*models.CourseRef, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var refs []models.CourseRef
		if err := json.Unmarshal(trimmed, &refs); err != nil {
			return nil, err
		}
		if len(refs) == 0 || refs[0].ID == "" {
			return nil, nil
		}
		return &refs[0], nil
	}

	var ref models.CourseRef
	if err := json.Unmarshal(trimmed, &ref); err != nil {
		return nil, err
	}
	// A join miss can surface as an object of nulls; treat it as no course.
	if ref.ID == "" {
		return nil, nil
	}
	return &ref, nil
}

// Create assigns an instructor to a course.
func (s *TeacherSubjectService) Create(ctx context.Context, req CreateTeacherSubjectRequest) (*models.TeacherSubject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	subject := &models.TeacherSubject{
		InstructorID: req.InstructorID,
		CourseID:     req.CourseID,
		SectionName:  req.SectionName,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Active:       true,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.WrapStore(err, "failed to create assignment")
	}

	s.invalidate(ctx)
	return subject, nil
}

// Delete removes an assignment.
func (s *TeacherSubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapStore(err, "failed to delete assignment")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TeacherSubjectService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cachePatternSubjects)
	s.cache.Invalidate(ctx, cachePatternDashboard)
}
