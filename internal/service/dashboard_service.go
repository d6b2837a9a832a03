package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
)

type announcementCounter interface {
	Count(ctx context.Context) (total int, active int, err error)
}

type courseCounter interface {
	Count(ctx context.Context) (int, error)
	CountSections(ctx context.Context) (int, error)
}

type programCounter interface {
	Count(ctx context.Context) (total int, active int, err error)
}

type userCounter interface {
	CountByRole(ctx context.Context) (map[models.UserRole]int, error)
}

type subjectCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// DashboardService aggregates entity counts for the landing view.
type DashboardService struct {
	announcements announcementCounter
	courses       courseCounter
	programs      programCounter
	users         userCounter
	subjects      subjectCounter
	cache         *CacheService
	cacheTTL      time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(announcements announcementCounter, courses courseCounter, programs programCounter, users userCounter, subjects subjectCounter, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		announcements: announcements,
		courses:       courses,
		programs:      programs,
		users:         users,
		subjects:      subjects,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// Summary returns the aggregated counts. The second return value reports
// whether the summary was served from cache.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	var cached models.DashboardSummary
	if hit, _ := s.cache.Get(ctx, cacheKeyDashboard, &cached); hit {
		return &cached, true, nil
	}

	summary := &models.DashboardSummary{GeneratedAt: s.now().UTC()}

	var err error
	summary.Announcements, summary.ActiveAnnouncements, err = s.announcements.Count(ctx)
	if err != nil {
		return nil, false, appErrors.WrapStore(err, "failed to count announcements")
	}

	summary.Courses, err = s.courses.Count(ctx)
	if err != nil {
		return nil, false, appErrors.WrapStore(err, "failed to count courses")
	}

	summary.Sections, err = s.courses.CountSections(ctx)
	if err != nil {
		return nil, false, appErrors.WrapStore(err, "failed to count sections")
	}

	summary.Programs, summary.ActivePrograms, err = s.programs.Count(ctx)
	if err != nil {
		return nil, false, appErrors.WrapStore(err, "failed to count programs")
	}

	summary.UsersByRole, err = s.users.CountByRole(ctx)
	if err != nil {
		return nil, false, appErrors.WrapStore(err, "failed to count users")
	}

	summary.ActiveInstructorSubjects, err = s.subjects.CountActive(ctx)
	if err != nil {
		return nil, false, appErrors.WrapStore(err, "failed to count instructor subjects")
	}

	_ = s.cache.Set(ctx, cacheKeyDashboard, summary, s.cacheTTL)
	return summary, false, nil
}
