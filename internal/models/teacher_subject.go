package models

import (
	"encoding/json"
	"time"
)

// TeacherSubject associates an instructor with a course for a section,
// academic year and semester.
type TeacherSubject struct {
	ID           string    `db:"id" json:"id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	SectionName  string    `db:"section_name" json:"section_name"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	Semester     string    `db:"semester" json:"semester"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CourseRef is the normalized shape of a joined course.
type CourseRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// TeacherSubjectDetail is an association with its joined course already
// normalized to a single nullable object.
type TeacherSubjectDetail struct {
	TeacherSubject
	Course *CourseRef `json:"course"`
}

// RawTeacherSubject carries the joined course as the store returned it: a
// single JSON object or a one-element array, depending on the join shape.
type RawTeacherSubject struct {
	TeacherSubject
	Course json.RawMessage `db:"course" json:"course"`
}
