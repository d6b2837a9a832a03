package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
)

type mockProgramRepo struct {
	items     []models.Program
	byID      map[string]*models.Program
	existing  map[string]bool
	created   *models.Program
	updated   *models.Program
	deletedID string
	listCalls int
}

func (m *mockProgramRepo) List(ctx context.Context) ([]models.Program, error) {
	m.listCalls++
	return m.items, nil
}

func (m *mockProgramRepo) GetByID(ctx context.Context, id string) (*models.Program, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgramRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return m.existing[code], nil
}

func (m *mockProgramRepo) Create(ctx context.Context, p *models.Program) error {
	p.ID = "prog-1"
	m.created = p
	return nil
}

func (m *mockProgramRepo) Update(ctx context.Context, p *models.Program) error {
	m.updated = p
	return nil
}

func (m *mockProgramRepo) SetActive(ctx context.Context, id string, active bool) error {
	if p, ok := m.byID[id]; ok {
		p.Active = active
	}
	return nil
}

func (m *mockProgramRepo) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return nil
}

func fixedClock(t *testing.T, value string) func() time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return func() time.Time { return parsed }
}

func TestProgramServiceCreateDerivesCode(t *testing.T) {
	repo := &mockProgramRepo{}
	cache, _ := newTestCache()
	svc := NewProgramService(repo, cache, nil, zap.NewNop())
	svc.now = fixedClock(t, "2026-08-30")

	program, err := svc.Create(context.Background(), CreateProgramRequest{
		Name:        "Bachelor of Science in Information Technology",
		Description: "Four-year IT program",
	})
	require.NoError(t, err)
	assert.Equal(t, "bac-260830", program.Code)
	assert.True(t, program.Active)
}

func TestProgramServiceCreateConflictOnDuplicateCode(t *testing.T) {
	repo := &mockProgramRepo{existing: map[string]bool{"bac-260830": true}}
	cache, _ := newTestCache()
	svc := NewProgramService(repo, cache, nil, zap.NewNop())
	svc.now = fixedClock(t, "2026-08-30")

	_, err := svc.Create(context.Background(), CreateProgramRequest{
		Name:        "Bachelor of Arts in Communication",
		Description: "Four-year program",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestProgramServiceUpdateKeepsCode(t *testing.T) {
	repo := &mockProgramRepo{byID: map[string]*models.Program{
		"prog-1": {ID: "prog-1", Name: "Old Name", Code: "old-250101"},
	}}
	cache, _ := newTestCache()
	svc := NewProgramService(repo, cache, nil, zap.NewNop())

	program, err := svc.Update(context.Background(), "prog-1", UpdateProgramRequest{
		Name:        "Completely Renamed Program",
		Description: "Updated",
	})
	require.NoError(t, err)
	assert.Equal(t, "old-250101", program.Code)
	assert.Equal(t, "Completely Renamed Program", program.Name)
}

func TestProgramServiceListUsesCache(t *testing.T) {
	repo := &mockProgramRepo{items: []models.Program{{ID: "p1", Name: "BSIT", Code: "bsi-260101"}}}
	cache, _ := newTestCache()
	svc := NewProgramService(repo, cache, nil, zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.List(ctx, models.ProgramFilter{})
	require.NoError(t, err)
	_, _, err = svc.List(ctx, models.ProgramFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestProgramServiceToggle(t *testing.T) {
	repo := &mockProgramRepo{byID: map[string]*models.Program{
		"prog-1": {ID: "prog-1", Active: true},
	}}
	cache, _ := newTestCache()
	svc := NewProgramService(repo, cache, nil, zap.NewNop())

	program, err := svc.Toggle(context.Background(), "prog-1", false)
	require.NoError(t, err)
	assert.False(t, program.Active)
}
