package service

import (
	"strings"

	"github.com/school-portal/admin-api/internal/models"
)

// The filter helpers below are pure derivations over already-fetched lists.
// They recompute on every call and never touch the store: an empty search
// string is the identity, and categorical narrowing only applies when a
// selector is set.

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterAnnouncements narrows by substring over title, content and author,
// and optionally by priority.
func FilterAnnouncements(list []models.Announcement, filter models.AnnouncementFilter) []models.Announcement {
	search := strings.TrimSpace(filter.Search)
	result := make([]models.Announcement, 0, len(list))
	for _, a := range list {
		if filter.Priority != nil && a.Priority != *filter.Priority {
			continue
		}
		if !matchesSearch(search, a.Title, a.Content, a.Author) {
			continue
		}
		result = append(result, a)
	}
	return result
}

// FilterCourses narrows by substring over code, name and description.
func FilterCourses(list []models.Course, filter models.CourseFilter) []models.Course {
	search := strings.TrimSpace(filter.Search)
	result := make([]models.Course, 0, len(list))
	for _, c := range list {
		if !matchesSearch(search, c.Code, c.Name, c.Description) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// FilterPrograms narrows by substring over name, description and major.
func FilterPrograms(list []models.Program, filter models.ProgramFilter) []models.Program {
	search := strings.TrimSpace(filter.Search)
	result := make([]models.Program, 0, len(list))
	for _, p := range list {
		if !matchesSearch(search, p.Name, p.Description, p.Major) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// FilterUsers narrows by substring over the concatenated name parts and
// email, and optionally by role.
func FilterUsers(list []models.UserProfile, filter models.UserFilter) []models.UserProfile {
	search := strings.TrimSpace(filter.Search)
	result := make([]models.UserProfile, 0, len(list))
	for _, u := range list {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if !matchesSearch(search, u.FullName(), u.Email) {
			continue
		}
		result = append(result, u)
	}
	return result
}
