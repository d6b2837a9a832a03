package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/school-portal/admin-api/internal/models"
)

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

const announcementColumns = "id, title, content, author, display_date, priority, category, image_ref, active, created_at, updated_at"

// List returns every announcement ordered by display date, newest first.
// Search and priority narrowing happen in memory at the service layer.
func (r *AnnouncementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s FROM announcements ORDER BY display_date DESC", announcementColumns)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s FROM announcements WHERE id = $1", announcementColumns)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now
	query := `INSERT INTO announcements (id, title, content, author, display_date, priority, category, image_ref, active, created_at, updated_at)
VALUES (:id, :title, :content, :author, :display_date, :priority, :category, :image_ref, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	query := `UPDATE announcements SET title = :title, content = :content, author = :author, display_date = :display_date,
priority = :priority, category = :category, image_ref = :image_ref, active = :active, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// SetActive flips the active flag of a single announcement.
func (r *AnnouncementRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := "UPDATE announcements SET active = $1, updated_at = $2 WHERE id = $3"
	if _, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("toggle announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement row.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}

// Count returns total and active announcement counts.
func (r *AnnouncementRepository) Count(ctx context.Context) (total int, active int, err error) {
	const query = "SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM announcements"
	row := r.db.QueryRowContext(ctx, query)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count announcements: %w", err)
	}
	return total, active, nil
}
