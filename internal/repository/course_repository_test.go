package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-portal/admin-api/internal/models"
)

func TestCourseRepositoryCreateSection(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO sections").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	section := &models.Section{CourseID: "c1", Name: "A-1", Capacity: 40, Schedule: "MWF 09:00-10:00", Room: "201", Instructor: "D. Reyes"}
	require.NoError(t, repo.CreateSection(context.Background(), section))
	assert.NotEmpty(t, section.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a course cascades to its sections at the store level; a direct
// section fetch afterwards must come back empty.
func TestCourseRepositoryDeleteThenListSectionsEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("DELETE FROM courses WHERE id").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, name, capacity, schedule, room, instructor, created_at FROM sections WHERE course_id = $1 ORDER BY name ASC")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "name", "capacity", "schedule", "room", "instructor", "created_at"}))

	require.NoError(t, repo.Delete(context.Background(), "c1"))

	sections, err := repo.ListSections(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
