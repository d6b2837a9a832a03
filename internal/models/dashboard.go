package models

import "time"

// DashboardSummary aggregates entity counts for the portal landing view.
type DashboardSummary struct {
	Announcements            int              `json:"announcements"`
	ActiveAnnouncements      int              `json:"active_announcements"`
	Courses                  int              `json:"courses"`
	Sections                 int              `json:"sections"`
	Programs                 int              `json:"programs"`
	ActivePrograms           int              `json:"active_programs"`
	UsersByRole              map[UserRole]int `json:"users_by_role"`
	ActiveInstructorSubjects int              `json:"active_instructor_subjects"`
	GeneratedAt              time.Time        `json:"generated_at"`
}
