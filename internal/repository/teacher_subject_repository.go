package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/school-portal/admin-api/internal/models"
)

// TeacherSubjectRepository handles persistence for instructor-course
// associations.
type TeacherSubjectRepository struct {
	db *sqlx.DB
}

// NewTeacherSubjectRepository creates a new repository instance.
func NewTeacherSubjectRepository(db *sqlx.DB) *TeacherSubjectRepository {
	return &TeacherSubjectRepository{db: db}
}

// ListByInstructor returns the active associations of one instructor with the
// joined course as raw JSON. The shape of the course document varies with the
// join (object or one-element array); normalization happens in the service.
func (r *TeacherSubjectRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.RawTeacherSubject, error) {
	const query = `SELECT ts.id, ts.instructor_id, ts.course_id, ts.section_name, ts.academic_year, ts.semester, ts.active, ts.created_at,
CASE WHEN c.id IS NULL THEN 'null' ELSE json_build_object('id', c.id, 'code', c.code, 'name', c.name)::text END AS course
FROM teacher_subjects ts
LEFT JOIN courses c ON c.id = ts.course_id
WHERE ts.instructor_id = $1 AND ts.active = TRUE
ORDER BY ts.created_at DESC`
	var subjects []models.RawTeacherSubject
	if err := r.db.SelectContext(ctx, &subjects, query, instructorID); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return subjects, nil
}

// Create persists a new association.
func (r *TeacherSubjectRepository) Create(ctx context.Context, subject *models.TeacherSubject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_subjects (id, instructor_id, course_id, section_name, academic_year, semester, active, created_at)
VALUES (:id, :instructor_id, :course_id, :section_name, :academic_year, :semester, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create teacher subject: %w", err)
	}
	return nil
}

// Delete removes an association.
func (r *TeacherSubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM teacher_subjects WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete teacher subject: %w", err)
	}
	return nil
}

// CountActive returns the number of active associations.
func (r *TeacherSubjectRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teacher_subjects WHERE active = TRUE"); err != nil {
		return 0, fmt.Errorf("count teacher subjects: %w", err)
	}
	return count, nil
}
