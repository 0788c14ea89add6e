package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/models/dto"
	"github.com/akarpenko/studyflow/internal/app/services"
	"github.com/akarpenko/studyflow/internal/middleware"
)

// HierarchyController handles course parent graph operations
type HierarchyController struct {
	hierarchyService services.HierarchyService
}

// NewHierarchyController creates a new HierarchyController
func NewHierarchyController(hierarchyService services.HierarchyService) *HierarchyController {
	return &HierarchyController{
		hierarchyService: hierarchyService,
	}
}

// ListParents retrieves a course's parent edges
// @Summary List course parents
// @Description Retrieves the parent edges of a course with their order numbers
// @Tags hierarchy
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.ParentEdgeResponse} "Parents retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/parents [get]
func (c *HierarchyController) ListParents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	edges, err := c.hierarchyService.ListParents(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.ParentEdgeResponse, 0, len(edges))
	for _, edge := range edges {
		out = append(out, dto.ParentEdgeResponse{
			ParentCourseID: edge.ParentCourseID,
			OrderNumber:    edge.OrderNumber,
		})
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// AddParent attaches a course under a parent
// @Summary Add a parent to a course
// @Description Attaches the course under the given parent. Adding an edge that
// @Description already exists is a no-op. The edge is rejected if it would
// @Description create a cycle.
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.AddParentRequest true "Parent and optional position"
// @Success 200 {object} dto.APIResponse "Parent added successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or self-parent"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Edge would create a cycle"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/parents [post]
func (c *HierarchyController) AddParent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddParentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.hierarchyService.AddParent(ctx, id, req.ParentCourseID, req.OrderNumber); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Parent added successfully"))
}

// RemoveParent detaches a course from one parent
// @Summary Remove a parent from a course
// @Description Detaches the course from the given parent and compacts the
// @Description vacated sibling ordering
// @Tags hierarchy
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param parentId path int true "Parent course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Parent removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Parent link not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/parents/{parentId} [delete]
func (c *HierarchyController) RemoveParent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	parentID, ok := parseIDParam(ctx, "parentId")
	if !ok {
		return
	}

	if err := c.hierarchyService.RemoveParent(ctx, id, parentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Parent removed successfully"))
}

// MoveCourse replaces a course's whole parent set
// @Summary Move a course
// @Description Replaces the course's parent set atomically. A rejected move
// @Description leaves the graph and all sibling orderings unchanged.
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.MoveCourseRequest true "New parent set"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course moved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data, self-parent or duplicates"
// @Failure 404 {object} dto.ErrorResponse "Course or parent not found"
// @Failure 409 {object} dto.ErrorResponse "A new parent lies in the course's subtree"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/parents [put]
func (c *HierarchyController) MoveCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MoveCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.hierarchyService.MoveCourse(ctx, id, req.ParentCourseIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseResponse(course)))
}

// RepositionChild moves a course among one parent's children
// @Summary Reposition a child course
// @Description Moves the course to a new position among the parent's
// @Description children. A null orderNumber moves it to the end.
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Parent course ID" Format(int64) minimum(1)
// @Param childId path int true "Child course ID" Format(int64) minimum(1)
// @Param request body dto.RepositionRequest true "New position"
// @Success 200 {object} dto.APIResponse "Child repositioned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid position"
// @Failure 404 {object} dto.ErrorResponse "Parent link not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/children/{childId}/position [patch]
func (c *HierarchyController) RepositionChild(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	childID, ok := parseIDParam(ctx, "childId")
	if !ok {
		return
	}

	var req dto.RepositionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.hierarchyService.RepositionChild(ctx, id, childID, req.OrderNumber); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Child repositioned successfully"))
}

// ReorderChildren applies a full permutation to one parent's children
// @Summary Reorder a parent's children
// @Description Applies a complete new ordering to the parent's children. The
// @Description payload must cover every current child exactly once with
// @Description positions 1..N.
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Parent course ID" Format(int64) minimum(1)
// @Param request body dto.ReorderRequest true "Full permutation"
// @Success 200 {object} dto.APIResponse "Children reordered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Payload is not a permutation of the current children"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/children/order [put]
func (c *HierarchyController) ReorderChildren(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.hierarchyService.ReorderChildren(ctx, id, req.Positions()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Children reordered successfully"))
}

// ListChildren retrieves a parent's children in sibling order
// @Summary List child courses
// @Description Retrieves the parent's children with their order numbers
// @Tags hierarchy
// @Produce json
// @Param id path int true "Parent course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.OrderedCourseResponse} "Children retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/children [get]
func (c *HierarchyController) ListChildren(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	children, err := c.hierarchyService.ListChildrenOrdered(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewOrderedCourseListResponse(children)))
}

// ListDescendants retrieves every course below the given one
// @Summary List descendant courses
// @Description Retrieves every course reachable from the given one through
// @Description child edges, origin excluded
// @Tags hierarchy
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Descendants retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/descendants [get]
func (c *HierarchyController) ListDescendants(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	descendants, err := c.hierarchyService.ListDescendants(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseListResponse(descendants)))
}
