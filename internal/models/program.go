package models

import "time"

// Program represents an academic program. Code is generated from the name at
// creation time and is immutable afterwards.
type Program struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	Major       string    `db:"major" json:"major"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProgramFilter narrows the in-memory program view.
type ProgramFilter struct {
	Search string
}
