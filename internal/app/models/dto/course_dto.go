package dto

import (
	"time"

	"github.com/akarpenko/studyflow/internal/app/models"
)

// CreateCourseRequest represents the payload for creating a course
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	AccessLevel string  `json:"accessLevel" binding:"required"`
	Description *string `json:"description"`
	IsRequired  bool    `json:"isRequired"`
	CourseUID   *string `json:"courseUid"`
}

// UpdateCourseRequest represents the payload for updating a course
type UpdateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	AccessLevel string  `json:"accessLevel" binding:"required"`
	Description *string `json:"description"`
	IsRequired  bool    `json:"isRequired"`
	CourseUID   *string `json:"courseUid"`
}

// ParentEdgeResponse represents one parent edge of a course
type ParentEdgeResponse struct {
	ParentCourseID int64 `json:"parentCourseId" example:"3"`
	OrderNumber    int32 `json:"orderNumber" example:"1"`
}

// CourseResponse represents course information returned by the API
type CourseResponse struct {
	ID          int64                `json:"id" example:"1"`
	Title       string               `json:"title" example:"Algebra Basics"`
	AccessLevel string               `json:"accessLevel" example:"self_guided"`
	Description *string              `json:"description,omitempty"`
	IsRequired  bool                 `json:"isRequired"`
	CourseUID   *string              `json:"courseUid,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	Parents     []ParentEdgeResponse `json:"parents,omitempty"`
}

// OrderedCourseResponse represents a course together with its sibling position
type OrderedCourseResponse struct {
	Course      CourseResponse `json:"course"`
	OrderNumber int32          `json:"orderNumber" example:"2"`
}

// ToCourseModel converts a create request into a course model
func (r *CreateCourseRequest) ToCourseModel() *models.Course {
	return &models.Course{
		Title:       r.Title,
		AccessLevel: models.AccessLevel(r.AccessLevel),
		Description: r.Description,
		IsRequired:  r.IsRequired,
		CourseUID:   r.CourseUID,
	}
}

// NewCourseResponse maps a course model to its API representation
func NewCourseResponse(course *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		AccessLevel: string(course.AccessLevel),
		Description: course.Description,
		IsRequired:  course.IsRequired,
		CourseUID:   course.CourseUID,
		CreatedAt:   course.CreatedAt,
	}

	for _, edge := range course.Parents {
		resp.Parents = append(resp.Parents, ParentEdgeResponse{
			ParentCourseID: edge.ParentCourseID,
			OrderNumber:    edge.OrderNumber,
		})
	}

	return resp
}

// NewCourseListResponse maps a course slice to API representations
func NewCourseListResponse(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, NewCourseResponse(course))
	}
	return out
}

// NewOrderedCourseListResponse maps ordered children to API representations
func NewOrderedCourseListResponse(children []*models.OrderedCourse) []OrderedCourseResponse {
	out := make([]OrderedCourseResponse, 0, len(children))
	for _, child := range children {
		out = append(out, OrderedCourseResponse{
			Course:      NewCourseResponse(child.Course),
			OrderNumber: child.OrderNumber,
		})
	}
	return out
}
