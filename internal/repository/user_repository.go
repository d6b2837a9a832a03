package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/school-portal/admin-api/internal/models"
)

// UserRepository handles persistence for user profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, role, first_name, middle_name, last_name, suffix, active,
student_number, program_code, year_level, section_name, enrollment_status, department, avatar_ref, created_at, updated_at`

// List returns every profile ordered by creation time, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM user_profiles ORDER BY created_at DESC", userColumns)
	var users []models.UserProfile
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list user profiles: %w", err)
	}
	return users, nil
}

// FindByID returns a profile by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.UserProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM user_profiles WHERE id = $1", userColumns)
	var user models.UserProfile
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a profile by email, matched case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM user_profiles WHERE LOWER(email) = LOWER($1)", userColumns)
	var user models.UserProfile
	if err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a new profile.
func (r *UserRepository) Create(ctx context.Context, user *models.UserProfile) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO user_profiles (id, email, password_hash, role, first_name, middle_name, last_name, suffix, active,
student_number, program_code, year_level, section_name, enrollment_status, department, avatar_ref, created_at, updated_at)
VALUES (:id, :email, :password_hash, :role, :first_name, :middle_name, :last_name, :suffix, :active,
:student_number, :program_code, :year_level, :section_name, :enrollment_status, :department, :avatar_ref, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user profile: %w", err)
	}
	return nil
}

// Update modifies a profile.
func (r *UserRepository) Update(ctx context.Context, user *models.UserProfile) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE user_profiles SET email = :email, role = :role, first_name = :first_name, middle_name = :middle_name,
last_name = :last_name, suffix = :suffix, active = :active, student_number = :student_number, program_code = :program_code,
year_level = :year_level, section_name = :section_name, enrollment_status = :enrollment_status, department = :department,
avatar_ref = :avatar_ref, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

// SetActive flips the active flag of a single profile.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := "UPDATE user_profiles SET active = $1, updated_at = $2 WHERE id = $3"
	if _, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("toggle user profile: %w", err)
	}
	return nil
}

// Delete removes a profile row.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_profiles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete user profile: %w", err)
	}
	return nil
}

// CountByRole returns profile counts grouped by role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT role, COUNT(*) FROM user_profiles GROUP BY role")
	if err != nil {
		return nil, fmt.Errorf("count user profiles: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[models.UserRole]int)
	for rows.Next() {
		var role models.UserRole
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}
	return counts, nil
}
