package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/storage"
)

type mockAnnouncementRepo struct {
	items     []models.Announcement
	byID      map[string]*models.Announcement
	listCalls int
	created   *models.Announcement
	updated   *models.Announcement
	deletedID string
	listErr   error
	deleteErr error
}

func (m *mockAnnouncementRepo) List(ctx context.Context) ([]models.Announcement, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	a.ID = "ann-1"
	m.created = a
	return nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, a *models.Announcement) error {
	m.updated = a
	return nil
}

func (m *mockAnnouncementRepo) SetActive(ctx context.Context, id string, active bool) error {
	if a, ok := m.byID[id]; ok {
		a.Active = active
	}
	return nil
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

type mockObjectStore struct {
	uploads   map[string][]byte
	objects   map[string][]byte
	removed   [][]string
	uploadErr error
	removeErr error
	signErr   error
}

func (m *mockObjectStore) Upload(_ context.Context, path string, data []byte, _ storage.UploadOptions) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	if m.uploads == nil {
		m.uploads = make(map[string][]byte)
	}
	m.uploads[path] = data
	return nil
}

func (m *mockObjectStore) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := m.objects[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (m *mockObjectStore) Remove(_ context.Context, paths []string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, paths)
	return nil
}

func (m *mockObjectStore) SignedURL(path string, _ time.Duration) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	return "/files/signed-" + path, nil
}

func newTestCache() (*CacheService, *stubCacheRepo) {
	repo := &stubCacheRepo{}
	return NewCacheService(repo, nil, time.Minute, zap.NewNop(), true), repo
}

func TestAnnouncementServiceListCachesAndFilters(t *testing.T) {
	high := models.AnnouncementPriorityHigh
	repo := &mockAnnouncementRepo{items: []models.Announcement{
		{ID: "a1", Title: "Enrollment week", Priority: models.AnnouncementPriorityHigh},
		{ID: "a2", Title: "Library hours", Priority: models.AnnouncementPriorityLow},
	}}
	cache, _ := newTestCache()
	svc := NewAnnouncementService(repo, &mockObjectStore{}, "portal", cache, nil, nil, zap.NewNop())
	ctx := context.Background()

	list, pagination, err := svc.List(ctx, models.AnnouncementFilter{Priority: &high})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
	assert.Equal(t, 2, pagination.TotalCount)

	_, _, err = svc.List(ctx, models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestAnnouncementServiceCreateValidates(t *testing.T) {
	cache, _ := newTestCache()
	svc := NewAnnouncementService(&mockAnnouncementRepo{}, &mockObjectStore{}, "portal", cache, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateAnnouncementRequest{Title: "no content"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAnnouncementServiceCreateInvalidatesCache(t *testing.T) {
	repo := &mockAnnouncementRepo{}
	cache, cacheRepo := newTestCache()
	svc := NewAnnouncementService(repo, &mockObjectStore{}, "portal", cache, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateAnnouncementRequest{
		Title:       "Enrollment week",
		Content:     "Enlist now",
		Author:      "Registrar",
		DisplayDate: time.Now(),
		Priority:    models.AnnouncementPriorityMedium,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Contains(t, cacheRepo.deleted, cacheKeyAnnouncements)
}

func TestAnnouncementServiceGetNotFound(t *testing.T) {
	cache, _ := newTestCache()
	svc := NewAnnouncementService(&mockAnnouncementRepo{}, &mockObjectStore{}, "portal", cache, nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAnnouncementServiceDeleteRemovesStoredImage(t *testing.T) {
	ref := "announcements/a1/banner.png"
	repo := &mockAnnouncementRepo{byID: map[string]*models.Announcement{
		"a1": {ID: "a1", ImageRef: &ref},
	}}
	store := &mockObjectStore{}
	cache, _ := newTestCache()
	svc := NewAnnouncementService(repo, store, "portal", cache, nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Equal(t, "a1", repo.deletedID)
	require.Len(t, store.removed, 1)
	assert.Equal(t, []string{ref}, store.removed[0])
}

func TestAnnouncementServiceDeleteSurvivesStorageFailure(t *testing.T) {
	ref := "announcements/a1/banner.png"
	repo := &mockAnnouncementRepo{byID: map[string]*models.Announcement{
		"a1": {ID: "a1", ImageRef: &ref},
	}}
	store := &mockObjectStore{removeErr: errors.New("bucket unavailable")}
	cache, _ := newTestCache()
	svc := NewAnnouncementService(repo, store, "portal", cache, NewMetricsService(), nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Equal(t, "a1", repo.deletedID)
}

func TestAnnouncementServiceUploadImageRecordsPath(t *testing.T) {
	repo := &mockAnnouncementRepo{byID: map[string]*models.Announcement{"a1": {ID: "a1"}}}
	store := &mockObjectStore{}
	cache, _ := newTestCache()
	svc := NewAnnouncementService(repo, store, "portal", cache, nil, nil, zap.NewNop())

	out, err := svc.UploadImage(context.Background(), "a1", "banner.png", "image/png", []byte("img"))
	require.NoError(t, err)
	require.NotNil(t, out.ImageRef)
	assert.Equal(t, "announcements/a1/banner.png", *out.ImageRef)
	assert.Contains(t, store.uploads, "announcements/a1/banner.png")
}
