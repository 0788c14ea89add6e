package models

import "time"

// AccessLevel describes how a course is delivered and checked.
type AccessLevel string

const (
	AccessSelfGuided      AccessLevel = "self_guided"
	AccessAutoCheck       AccessLevel = "auto_check"
	AccessManualCheck     AccessLevel = "manual_check"
	AccessGroupSessions   AccessLevel = "group_sessions"
	AccessPersonalTeacher AccessLevel = "personal_teacher"
)

// Course represents a course node in the hierarchy. A course may have zero,
// one or many parent courses; the edges live in course_parents.
type Course struct {
	ID          int64       `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	AccessLevel AccessLevel `json:"accessLevel" db:"access_level"`
	Description *string     `json:"description,omitempty" db:"description"` // Nullable
	IsRequired  bool        `json:"isRequired" db:"is_required"`
	CourseUID   *string     `json:"courseUid,omitempty" db:"course_uid"` // External import code, e.g. "COURSE-PY-01"
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`

	// Parent edges (populated when needed)
	Parents []*CourseParent `json:"parents,omitempty"`
}

// ValidAccessLevel reports whether v is one of the known access levels.
func ValidAccessLevel(v AccessLevel) bool {
	switch v {
	case AccessSelfGuided, AccessAutoCheck, AccessManualCheck, AccessGroupSessions, AccessPersonalTeacher:
		return true
	}
	return false
}
