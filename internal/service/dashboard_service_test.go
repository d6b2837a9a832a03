package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
)

type stubCounters struct {
	calls int
}

func (s *stubCounters) Count(ctx context.Context) (int, int, error) {
	s.calls++
	return 10, 7, nil
}

type stubCourseCounter struct{}

func (s *stubCourseCounter) Count(ctx context.Context) (int, error)         { return 12, nil }
func (s *stubCourseCounter) CountSections(ctx context.Context) (int, error) { return 30, nil }

type stubUserCounter struct{}

func (s *stubUserCounter) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	return map[models.UserRole]int{models.RoleStudent: 150, models.RoleInstructor: 20}, nil
}

type stubSubjectCounter struct{}

func (s *stubSubjectCounter) CountActive(ctx context.Context) (int, error) { return 45, nil }

func TestDashboardServiceSummaryAggregates(t *testing.T) {
	announcements := &stubCounters{}
	programs := &stubCounters{}
	cache, _ := newTestCache()
	svc := NewDashboardService(announcements, &stubCourseCounter{}, programs, &stubUserCounter{}, &stubSubjectCounter{}, cache, time.Minute, zap.NewNop())

	summary, cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 10, summary.Announcements)
	assert.Equal(t, 7, summary.ActiveAnnouncements)
	assert.Equal(t, 12, summary.Courses)
	assert.Equal(t, 30, summary.Sections)
	assert.Equal(t, 10, summary.Programs)
	assert.Equal(t, 7, summary.ActivePrograms)
	assert.Equal(t, 150, summary.UsersByRole[models.RoleStudent])
	assert.Equal(t, 45, summary.ActiveInstructorSubjects)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestDashboardServiceSummaryServedFromCache(t *testing.T) {
	announcements := &stubCounters{}
	cache, _ := newTestCache()
	svc := NewDashboardService(announcements, &stubCourseCounter{}, &stubCounters{}, &stubUserCounter{}, &stubSubjectCounter{}, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, cached, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, announcements.calls)
}
