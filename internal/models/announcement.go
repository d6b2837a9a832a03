package models

import "time"

// AnnouncementPriority orders announcements on the portal feed.
type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "low"
	AnnouncementPriorityMedium AnnouncementPriority = "medium"
	AnnouncementPriorityHigh   AnnouncementPriority = "high"
)

// Valid reports whether the priority belongs to the closed set.
func (p AnnouncementPriority) Valid() bool {
	switch p {
	case AnnouncementPriorityLow, AnnouncementPriorityMedium, AnnouncementPriorityHigh:
		return true
	}
	return false
}

// Announcement represents a persisted announcement row. ImageRef is either a
// data URI holding the banner inline or an object-storage reference.
type Announcement struct {
	ID          string               `db:"id" json:"id"`
	Title       string               `db:"title" json:"title"`
	Content     string               `db:"content" json:"content"`
	Author      string               `db:"author" json:"author"`
	DisplayDate time.Time            `db:"display_date" json:"display_date"`
	Priority    AnnouncementPriority `db:"priority" json:"priority"`
	Category    string               `db:"category" json:"category"`
	ImageRef    *string              `db:"image_ref" json:"image_ref,omitempty"`
	Active      bool                 `db:"active" json:"active"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter narrows the in-memory announcement view.
type AnnouncementFilter struct {
	Search   string
	Priority *AnnouncementPriority
}
