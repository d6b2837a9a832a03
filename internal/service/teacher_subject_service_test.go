package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
)

type mockTeacherSubjectRepo struct {
	raws      []models.RawTeacherSubject
	listCalls int
	created   *models.TeacherSubject
	deletedID string
}

func (m *mockTeacherSubjectRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.RawTeacherSubject, error) {
	m.listCalls++
	return m.raws, nil
}

func (m *mockTeacherSubjectRepo) Create(ctx context.Context, s *models.TeacherSubject) error {
	s.ID = "ts-1"
	m.created = s
	return nil
}

func (m *mockTeacherSubjectRepo) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return nil
}

func TestNormalizeCourseShapes(t *testing.T) {
	object := json.RawMessage(`{"id":"c1","code":"CS101","name":"Intro"}`)
	array := json.RawMessage(`[{"id":"c1","code":"CS101","name":"Intro"}]`)

	tests := []struct {
		name string
		raw  json.RawMessage
		want *models.CourseRef
	}{
		{"object", object, &models.CourseRef{ID: "c1", Code: "CS101", Name: "Intro"}},
		{"one element array", array, &models.CourseRef{ID: "c1", Code: "CS101", Name: "Intro"}},
		{"empty array", json.RawMessage(`[]`), nil},
		{"null", json.RawMessage(`null`), nil},
		{"empty", nil, nil},
		{"join miss object of nulls", json.RawMessage(`{"id" : null, "code" : null, "name" : null}`), nil},
		{"join miss in array", json.RawMessage(`[{"id":null,"code":null,"name":null}]`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeCourse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCourseMalformed(t *testing.T) {
	_, err := normalizeCourse(json.RawMessage(`{"id":`))
	require.Error(t, err)
}

func TestTeacherSubjectServiceListNormalizes(t *testing.T) {
	repo := &mockTeacherSubjectRepo{raws: []models.RawTeacherSubject{
		{
			TeacherSubject: models.TeacherSubject{ID: "ts-1", InstructorID: "u1", CourseID: "c1"},
			Course:         json.RawMessage(`[{"id":"c1","code":"CS101","name":"Intro"}]`),
		},
		{
			TeacherSubject: models.TeacherSubject{ID: "ts-2", InstructorID: "u1", CourseID: "c2"},
			Course:         json.RawMessage(`null`),
		},
		{
			TeacherSubject: models.TeacherSubject{ID: "ts-3", InstructorID: "u1", CourseID: "c3"},
			Course:         json.RawMessage(`{"id" : null, "code" : null, "name" : null}`),
		},
	}}
	cache, _ := newTestCache()
	svc := NewTeacherSubjectService(repo, cache, 0, nil, zap.NewNop())

	details, err := svc.ListByInstructor(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, details, 3)
	require.NotNil(t, details[0].Course)
	assert.Equal(t, "CS101", details[0].Course.Code)
	assert.Nil(t, details[1].Course)
	// Deleted courses reach the row as a json object with null fields.
	assert.Nil(t, details[2].Course)
}

func TestTeacherSubjectServiceListCachesPerInstructor(t *testing.T) {
	repo := &mockTeacherSubjectRepo{}
	cache, _ := newTestCache()
	svc := NewTeacherSubjectService(repo, cache, 0, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.ListByInstructor(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.ListByInstructor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestTeacherSubjectServiceListUsesConfiguredTTL(t *testing.T) {
	repo := &mockTeacherSubjectRepo{}
	cache, cacheRepo := newTestCache()
	svc := NewTeacherSubjectService(repo, cache, 10*time.Minute, nil, zap.NewNop())

	_, err := svc.ListByInstructor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cacheRepo.lastTTL)
}

func TestTeacherSubjectServiceCreateInvalidatesSubjectCache(t *testing.T) {
	repo := &mockTeacherSubjectRepo{}
	cache, cacheRepo := newTestCache()
	svc := NewTeacherSubjectService(repo, cache, 0, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeacherSubjectRequest{
		InstructorID: "u1",
		CourseID:     "c1",
		SectionName:  "A",
		AcademicYear: "2026-2027",
		Semester:     "1st",
	})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, cachePatternSubjects)
	assert.True(t, repo.created.Active)
}
