package dto

import (
	"time"

	"github.com/akarpenko/studyflow/internal/app/models"
)

// LinkTeacherRequest attaches a teacher to a root course
type LinkTeacherRequest struct {
	TeacherID int64 `json:"teacherId" binding:"required,gt=0"`
}

// TeacherCourseResponse represents one teacher<->course link
type TeacherCourseResponse struct {
	TeacherID int64     `json:"teacherId" example:"7"`
	CourseID  int64     `json:"courseId" example:"1"`
	LinkedAt  time.Time `json:"linkedAt"`
}

// AttachCourseRequest enrolls a user in a course. OrderNumber is optional;
// when omitted the course is appended at the end of the user's plan.
type AttachCourseRequest struct {
	CourseID    int64  `json:"courseId" binding:"required,gt=0"`
	OrderNumber *int32 `json:"orderNumber"`
}

// UserCourseResponse represents one enrollment in a user's plan
type UserCourseResponse struct {
	UserID      int64     `json:"userId" example:"5"`
	CourseID    int64     `json:"courseId" example:"1"`
	AddedAt     time.Time `json:"addedAt"`
	IsActive    bool      `json:"isActive"`
	OrderNumber int32     `json:"orderNumber" example:"1"`
}

// NewTeacherCourseListResponse maps link models to API representations
func NewTeacherCourseListResponse(links []*models.TeacherCourse) []TeacherCourseResponse {
	out := make([]TeacherCourseResponse, 0, len(links))
	for _, link := range links {
		out = append(out, TeacherCourseResponse{
			TeacherID: link.TeacherID,
			CourseID:  link.CourseID,
			LinkedAt:  link.LinkedAt,
		})
	}
	return out
}

// NewUserCourseResponse maps an enrollment model to its API representation
func NewUserCourseResponse(row *models.UserCourse) UserCourseResponse {
	return UserCourseResponse{
		UserID:      row.UserID,
		CourseID:    row.CourseID,
		AddedAt:     row.AddedAt,
		IsActive:    row.IsActive,
		OrderNumber: row.OrderNumber,
	}
}

// NewUserCourseListResponse maps enrollment models to API representations
func NewUserCourseListResponse(rows []*models.UserCourse) []UserCourseResponse {
	out := make([]UserCourseResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewUserCourseResponse(row))
	}
	return out
}
