package models

import "time"

// TeacherCourse links a teacher to a course. Rows are written either by a
// direct assignment (allowed only for parentless courses) or derived from the
// hierarchy by the link propagation step.
type TeacherCourse struct {
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	LinkedAt  time.Time `json:"linkedAt" db:"linked_at"`
}

// UserCourse is a student's enrollment row. OrderNumber is the course's
// position in the user's personal plan (dense 1..N per user).
type UserCourse struct {
	UserID      int64     `json:"userId" db:"user_id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	AddedAt     time.Time `json:"addedAt" db:"added_at"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	OrderNumber int32     `json:"orderNumber" db:"order_number"`
}
