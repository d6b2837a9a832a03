package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/storage"
)

type mockCourseRepo struct {
	items          []models.Course
	byID           map[string]*models.Course
	sections       map[string][]models.Section
	createdSection *models.Section
	deletedID      string
	deletedSection string
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	return m.items, nil
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, c *models.Course) error {
	c.ID = "course-1"
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, c *models.Course) error { return nil }

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return nil
}

func (m *mockCourseRepo) ListSections(ctx context.Context, courseID string) ([]models.Section, error) {
	return m.sections[courseID], nil
}

func (m *mockCourseRepo) CreateSection(ctx context.Context, s *models.Section) error {
	s.ID = "sec-1"
	m.createdSection = s
	return nil
}

func (m *mockCourseRepo) DeleteSection(ctx context.Context, id string) error {
	m.deletedSection = id
	return nil
}

func newTestTracker(t *testing.T) *storage.BlobTracker {
	t.Helper()
	tracker, err := storage.NewBlobTracker(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return tracker
}

func TestCourseServiceListResolvesImagesToBlobs(t *testing.T) {
	ref := "courses/c1/cover.png"
	repo := &mockCourseRepo{items: []models.Course{{ID: "c1", Code: "CS101", Name: "Intro", ImageRef: &ref}}}
	store := &mockObjectStore{objects: map[string][]byte{ref: []byte("png-bytes")}}
	tracker := newTestTracker(t)
	cache, _ := newTestCache()
	svc := NewCourseService(repo, store, tracker, "portal", cache, nil, nil, zap.NewNop())

	list, pagination, err := svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ImageURL)
	assert.Contains(t, *list[0].ImageURL, "/blobs/")
	assert.Equal(t, 1, tracker.Len())
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestCourseServiceListReleasesPreviousBlobs(t *testing.T) {
	ref := "courses/c1/cover.png"
	repo := &mockCourseRepo{items: []models.Course{{ID: "c1", ImageRef: &ref}}}
	store := &mockObjectStore{objects: map[string][]byte{ref: []byte("png-bytes")}}
	tracker := newTestTracker(t)
	cache, _ := newTestCache()
	svc := NewCourseService(repo, store, tracker, "portal", cache, nil, nil, zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.List(ctx, models.CourseFilter{})
	require.NoError(t, err)
	_, _, err = svc.List(ctx, models.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.Len())
}

func TestCourseServiceListToleratesDownloadFailure(t *testing.T) {
	ref := "courses/c1/missing.png"
	repo := &mockCourseRepo{items: []models.Course{{ID: "c1", ImageRef: &ref}}}
	store := &mockObjectStore{}
	tracker := newTestTracker(t)
	cache, _ := newTestCache()
	svc := NewCourseService(repo, store, tracker, "portal", cache, nil, nil, zap.NewNop())

	list, _, err := svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].ImageURL)
}

func TestCourseServiceCreateRejectsUnitsOutOfRange(t *testing.T) {
	cache, _ := newTestCache()
	svc := NewCourseService(&mockCourseRepo{}, &mockObjectStore{}, nil, "portal", cache, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Code: "CS101", Name: "Intro", Description: "Basics", Units: 7,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceCreateSection(t *testing.T) {
	repo := &mockCourseRepo{byID: map[string]*models.Course{"c1": {ID: "c1"}}}
	cache, _ := newTestCache()
	svc := NewCourseService(repo, &mockObjectStore{}, nil, "portal", cache, nil, nil, zap.NewNop())

	section, err := svc.CreateSection(context.Background(), "c1", CreateSectionRequest{
		Name: "A", Capacity: 40, Room: "201",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", section.CourseID)
	assert.Equal(t, "sec-1", section.ID)
}

func TestCourseServiceCreateSectionUnknownCourse(t *testing.T) {
	cache, _ := newTestCache()
	svc := NewCourseService(&mockCourseRepo{}, &mockObjectStore{}, nil, "portal", cache, nil, nil, zap.NewNop())

	_, err := svc.CreateSection(context.Background(), "missing", CreateSectionRequest{Name: "A", Capacity: 40})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceDeleteCleansImage(t *testing.T) {
	ref := "courses/c1/cover.png"
	repo := &mockCourseRepo{byID: map[string]*models.Course{"c1": {ID: "c1", ImageRef: &ref}}}
	store := &mockObjectStore{}
	cache, _ := newTestCache()
	svc := NewCourseService(repo, store, nil, "portal", cache, nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, "c1", repo.deletedID)
	require.Len(t, store.removed, 1)
}

func TestCourseServiceDeleteInvalidatesOnlyDashboard(t *testing.T) {
	repo := &mockCourseRepo{byID: map[string]*models.Course{"c1": {ID: "c1"}}}
	cache, cacheRepo := newTestCache()
	svc := NewCourseService(repo, &mockObjectStore{}, nil, "portal", cache, nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	// Course lists are never cached, so no list key should be touched.
	assert.Equal(t, []string{cachePatternDashboard}, cacheRepo.deleted)
}
