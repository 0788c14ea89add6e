package dto

import (
	"time"

	"github.com/akarpenko/studyflow/internal/app/models"
)

// CreateMaterialRequest represents the payload for adding a material to a
// course. OrderPosition is optional; when omitted the material is appended.
type CreateMaterialRequest struct {
	Title         string  `json:"title" binding:"required"`
	ContentType   string  `json:"contentType" binding:"required"`
	ContentURL    *string `json:"contentUrl"`
	Description   *string `json:"description"`
	Caption       *string `json:"caption"`
	IsActive      *bool   `json:"isActive"`
	ExternalUID   *string `json:"externalUid"`
	OrderPosition *int32  `json:"orderPosition"`
}

// UpdateMaterialRequest represents the payload for updating a material's
// content fields. Ordering changes go through the reposition/reorder routes.
type UpdateMaterialRequest struct {
	Title       string  `json:"title" binding:"required"`
	ContentType string  `json:"contentType" binding:"required"`
	ContentURL  *string `json:"contentUrl"`
	Description *string `json:"description"`
	Caption     *string `json:"caption"`
	IsActive    *bool   `json:"isActive"`
	ExternalUID *string `json:"externalUid"`
}

// MaterialResponse represents material information returned by the API
type MaterialResponse struct {
	ID            int64     `json:"id" example:"10"`
	CourseID      int64     `json:"courseId" example:"1"`
	Title         string    `json:"title" example:"Lesson 1 video"`
	ContentType   string    `json:"contentType" example:"video"`
	ContentURL    *string   `json:"contentUrl,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Caption       *string   `json:"caption,omitempty"`
	IsActive      bool      `json:"isActive"`
	ExternalUID   *string   `json:"externalUid,omitempty"`
	OrderPosition int32     `json:"orderPosition" example:"1"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToMaterialModel converts a create request into a material model
func (r *CreateMaterialRequest) ToMaterialModel(courseID int64) *models.Material {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &models.Material{
		CourseID:    courseID,
		Title:       r.Title,
		ContentType: models.ContentType(r.ContentType),
		ContentURL:  r.ContentURL,
		Description: r.Description,
		Caption:     r.Caption,
		IsActive:    isActive,
		ExternalUID: r.ExternalUID,
	}
}

// NewMaterialResponse maps a material model to its API representation
func NewMaterialResponse(material *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:            material.ID,
		CourseID:      material.CourseID,
		Title:         material.Title,
		ContentType:   string(material.ContentType),
		ContentURL:    material.ContentURL,
		Description:   material.Description,
		Caption:       material.Caption,
		IsActive:      material.IsActive,
		ExternalUID:   material.ExternalUID,
		OrderPosition: material.OrderPosition,
		CreatedAt:     material.CreatedAt,
		UpdatedAt:     material.UpdatedAt,
	}
}

// NewMaterialListResponse maps material models to API representations
func NewMaterialListResponse(materials []*models.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for _, material := range materials {
		out = append(out, NewMaterialResponse(material))
	}
	return out
}
