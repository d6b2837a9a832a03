package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-portal/admin-api/internal/models"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "first_name", "middle_name", "last_name", "suffix", "active",
		"student_number", "program_code", "year_level", "section_name", "enrollment_status", "department",
		"avatar_ref", "created_at", "updated_at",
	})
}

func TestUserRepositoryFindByEmailLowercases(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := userRows().AddRow("u1", "jane@portal.edu", "hash", "registrar", "Jane", nil, "Reyes", nil, true,
		nil, nil, nil, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(`LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("Jane@Portal.edu").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "Jane@Portal.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRegistrar, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM user_profiles WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestUserRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO user_profiles`).
		WithArgs(sqlmock.AnyArg(), "jane@portal.edu", "hash", "registrar", "Jane", nil, "Reyes", nil, true,
			nil, nil, nil, nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.UserProfile{
		Email:        "jane@portal.edu",
		PasswordHash: "hash",
		Role:         models.RoleRegistrar,
		FirstName:    "Jane",
		LastName:     "Reyes",
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCountByRole(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"role", "count"}).
		AddRow("student", 150).
		AddRow("instructor", 20).
		AddRow("admin", 2)
	mock.ExpectQuery(`SELECT role, COUNT\(\*\) FROM user_profiles GROUP BY role`).
		WillReturnRows(rows)

	counts, err := repo.CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 150, counts[models.RoleStudent])
	assert.Equal(t, 20, counts[models.RoleInstructor])
	assert.Equal(t, 2, counts[models.RoleAdmin])
	assert.NoError(t, mock.ExpectationsWereMet())
}
