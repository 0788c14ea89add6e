package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/models/dto"
	"github.com/akarpenko/studyflow/internal/app/services"
	"github.com/akarpenko/studyflow/internal/middleware"
)

// MaterialController handles course material operations
type MaterialController struct {
	materialService services.MaterialService
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService services.MaterialService) *MaterialController {
	return &MaterialController{
		materialService: materialService,
	}
}

// ListMaterials retrieves a course's materials in order
// @Summary List course materials
// @Description Retrieves the course's materials ordered by position
// @Tags materials
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.MaterialResponse} "Materials retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/materials [get]
func (c *MaterialController) ListMaterials(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	materials, err := c.materialService.ListByCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMaterialListResponse(materials)))
}

// CreateMaterial adds a material to a course
// @Summary Create a material
// @Description Adds a material to the course at the given position, or at the
// @Description end when no position is given
// @Tags materials
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.CreateMaterialRequest true "Material information"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialResponse} "Material created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "External UID already exists in the course"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/materials [post]
func (c *MaterialController) CreateMaterial(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if !bindJSON(ctx, &req) {
		return
	}

	material := req.ToMaterialModel(id)
	if err := c.materialService.CreateMaterial(ctx, material, req.OrderPosition); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewMaterialResponse(material)))
}

// GetMaterialByID retrieves a material
// @Summary Get material details
// @Description Retrieves a material by its ID
// @Tags materials
// @Produce json
// @Param id path int true "Material ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse} "Material retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /materials/{id} [get]
func (c *MaterialController) GetMaterialByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	material, err := c.materialService.GetMaterialByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMaterialResponse(material)))
}

// UpdateMaterial updates a material's content fields
// @Summary Update a material
// @Description Updates a material's content fields. Ordering changes go
// @Description through the reposition and reorder routes.
// @Tags materials
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Material ID" Format(int64) minimum(1)
// @Param request body dto.UpdateMaterialRequest true "Updated material information"
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse} "Material updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /materials/{id} [put]
func (c *MaterialController) UpdateMaterial(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if !bindJSON(ctx, &req) {
		return
	}

	current, err := c.materialService.GetMaterialByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	material := &models.Material{
		ID:            id,
		CourseID:      current.CourseID,
		Title:         req.Title,
		ContentType:   models.ContentType(req.ContentType),
		ContentURL:    req.ContentURL,
		Description:   req.Description,
		Caption:       req.Caption,
		IsActive:      isActive,
		ExternalUID:   req.ExternalUID,
		OrderPosition: current.OrderPosition,
	}
	if err := c.materialService.UpdateMaterial(ctx, material); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMaterialResponse(material)))
}

// DeleteMaterial removes a material
// @Summary Delete a material
// @Description Removes the material and compacts the course's remaining order
// @Tags materials
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Material ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Material deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /materials/{id} [delete]
func (c *MaterialController) DeleteMaterial(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.materialService.DeleteMaterial(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Material deleted successfully"))
}

// RepositionMaterial moves a material within its course
// @Summary Reposition a material
// @Description Moves the material to a new position within its course. A null
// @Description orderNumber moves it to the end.
// @Tags materials
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Material ID" Format(int64) minimum(1)
// @Param request body dto.RepositionRequest true "New position"
// @Success 200 {object} dto.APIResponse "Material repositioned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid position"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /materials/{id}/position [patch]
func (c *MaterialController) RepositionMaterial(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RepositionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.materialService.Reposition(ctx, id, req.OrderNumber); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Material repositioned successfully"))
}

// ReorderMaterials applies a full permutation to a course's materials
// @Summary Reorder a course's materials
// @Description Applies a complete new ordering to the course's materials. The
// @Description payload must cover every material exactly once with positions
// @Description 1..N.
// @Tags materials
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.ReorderRequest true "Full permutation"
// @Success 200 {object} dto.APIResponse "Materials reordered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Payload is not a permutation of the current materials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/materials/order [put]
func (c *MaterialController) ReorderMaterials(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.materialService.Reorder(ctx, id, req.Positions()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Materials reordered successfully"))
}
