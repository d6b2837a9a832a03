package models

import "time"

// Course represents an academic course offering.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Units       int       `db:"units" json:"units"`
	ImageRef    *string   `db:"image_ref" json:"image_ref,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// ImageURL is a transient blob URL resolved at read time, never persisted.
	ImageURL *string `db:"-" json:"image_url,omitempty"`
}

// Section belongs to exactly one course; the store cascades section rows when
// the owning course is deleted.
type Section struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Name       string    `db:"name" json:"name"`
	Capacity   int       `db:"capacity" json:"capacity"`
	Schedule   string    `db:"schedule" json:"schedule"`
	Room       string    `db:"room" json:"room"`
	Instructor string    `db:"instructor" json:"instructor"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CourseFilter narrows the in-memory course view.
type CourseFilter struct {
	Search string
}
