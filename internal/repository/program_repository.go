package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/school-portal/admin-api/internal/models"
)

// ProgramRepository handles persistence for academic programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new repository instance.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

const programColumns = "id, name, code, description, major, active, created_at, updated_at"

// List returns every program ordered by creation time, newest first.
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs ORDER BY created_at DESC", programColumns)
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// GetByID returns a program by identifier.
func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs WHERE id = $1", programColumns)
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// ExistsByCode checks uniqueness of a generated program code.
func (r *ProgramRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM programs WHERE LOWER(code) = LOWER($1) LIMIT 1", code)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check program code: %w", err)
	}
	return true, nil
}

// Create persists a new program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now
	const query = `INSERT INTO programs (id, name, code, description, major, active, created_at, updated_at)
VALUES (:id, :name, :code, :description, :major, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Update modifies a program. The code column is deliberately excluded.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	program.UpdatedAt = time.Now().UTC()
	const query = `UPDATE programs SET name = :name, description = :description, major = :major, active = :active,
updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

// SetActive flips the active flag of a single program.
func (r *ProgramRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := "UPDATE programs SET active = $1, updated_at = $2 WHERE id = $3"
	if _, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("toggle program: %w", err)
	}
	return nil
}

// Delete removes a program row.
func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM programs WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return nil
}

// Count returns total and active program counts.
func (r *ProgramRepository) Count(ctx context.Context) (total int, active int, err error) {
	const query = "SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM programs"
	row := r.db.QueryRowContext(ctx, query)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count programs: %w", err)
	}
	return total, active, nil
}
