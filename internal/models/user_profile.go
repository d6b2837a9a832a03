package models

import (
	"strings"
	"time"
)

// UserRole enumerates portal roles.
type UserRole string

const (
	RoleStudent     UserRole = "student"
	RoleInstructor  UserRole = "instructor"
	RoleRegistrar   UserRole = "registrar"
	RoleProgramHead UserRole = "program_head"
	RoleAdmin       UserRole = "admin"
	RoleSuperAdmin  UserRole = "superadmin"
)

// ManagementRoles are allowed into the admin screens.
var ManagementRoles = []UserRole{RoleRegistrar, RoleProgramHead, RoleAdmin, RoleSuperAdmin}

// UserProfile represents an application user. Student and instructor fields
// are role-conditional and nullable for everyone else.
type UserProfile struct {
	ID           string   `db:"id" json:"id"`
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Role         UserRole `db:"role" json:"role"`
	FirstName    string   `db:"first_name" json:"first_name"`
	MiddleName   *string  `db:"middle_name" json:"middle_name,omitempty"`
	LastName     string   `db:"last_name" json:"last_name"`
	Suffix       *string  `db:"suffix" json:"suffix,omitempty"`
	Active       bool     `db:"active" json:"active"`

	StudentNumber    *string `db:"student_number" json:"student_number,omitempty"`
	ProgramCode      *string `db:"program_code" json:"program_code,omitempty"`
	YearLevel        *string `db:"year_level" json:"year_level,omitempty"`
	SectionName      *string `db:"section_name" json:"section_name,omitempty"`
	EnrollmentStatus *string `db:"enrollment_status" json:"enrollment_status,omitempty"`
	Department       *string `db:"department" json:"department,omitempty"`

	AvatarRef *string   `db:"avatar_ref" json:"avatar_ref,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Resolved at read time, never persisted. Exactly one of AvatarURL and
	// AvatarInitials is set.
	AvatarURL      *string `db:"-" json:"avatar_url,omitempty"`
	AvatarInitials *string `db:"-" json:"avatar_initials,omitempty"`
}

// FullName concatenates the name parts the way the portal displays them.
func (u UserProfile) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)
	if u.Suffix != nil && *u.Suffix != "" {
		parts = append(parts, *u.Suffix)
	}
	return strings.Join(parts, " ")
}

// Initials derives the avatar placeholder from first and last name.
func (u UserProfile) Initials() string {
	var b strings.Builder
	if u.FirstName != "" {
		b.WriteString(strings.ToUpper(string([]rune(u.FirstName)[0])))
	}
	if u.LastName != "" {
		b.WriteString(strings.ToUpper(string([]rune(u.LastName)[0])))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// UserFilter narrows the in-memory user view.
type UserFilter struct {
	Search string
	Role   *UserRole
}

// Pagination contains list metadata returned in list responses. TotalCount is
// the unfiltered row count so clients can tell "no data" from "no match".
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
