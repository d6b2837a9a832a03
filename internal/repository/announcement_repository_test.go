package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-portal/admin-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAnnouncementRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "content", "author", "display_date", "priority", "category", "image_ref", "active", "created_at", "updated_at"}).
		AddRow("1", "Enrollment open", "Enroll now", "Registrar", time.Now(), "high", "enrollment", nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, author, display_date, priority, category, image_ref, active, created_at, updated_at FROM announcements ORDER BY display_date DESC")).
		WillReturnRows(rows)

	announcements, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, announcements, 1)
	assert.Equal(t, models.AnnouncementPriorityHigh, announcements[0].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	announcement := &models.Announcement{Title: "Enrollment open", Content: "Enroll now", Author: "Registrar", DisplayDate: time.Now(), Priority: models.AnnouncementPriorityMedium, Category: "enrollment", Active: true}
	err := repo.Create(context.Background(), announcement)
	require.NoError(t, err)
	assert.NotEmpty(t, announcement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositorySetActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("UPDATE announcements SET active").
		WithArgs(false, sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetActive(context.Background(), "a1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM announcements")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "active"}).AddRow(5, 3))

	total, active, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
