package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/models/dto"
	"github.com/akarpenko/studyflow/internal/app/services"
	"github.com/akarpenko/studyflow/internal/middleware"
)

// UserCourseController handles a user's ordered course plan
type UserCourseController struct {
	userCourseService services.UserCourseService
}

// NewUserCourseController creates a new UserCourseController
func NewUserCourseController(userCourseService services.UserCourseService) *UserCourseController {
	return &UserCourseController{
		userCourseService: userCourseService,
	}
}

// ListUserCourses retrieves the user's enrollments in plan order
// @Summary List a user's courses
// @Description Retrieves the user's enrollments ordered by plan position
// @Tags user-courses
// @Produce json
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.UserCourseResponse} "Enrollments retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/courses [get]
func (c *UserCourseController) ListUserCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	rows, err := c.userCourseService.ListByUser(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserCourseListResponse(rows)))
}

// AttachCourse enrolls a user in a course
// @Summary Attach a course to a user's plan
// @Description Enrolls the user in a root course at the given plan position,
// @Description or at the end when no position is given. Courses with parents
// @Description cannot be attached directly.
// @Tags user-courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Param request body dto.AttachCourseRequest true "Course and optional position"
// @Success 201 {object} dto.APIResponse{data=dto.UserCourseResponse} "Course attached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User or course not found"
// @Failure 409 {object} dto.ErrorResponse "Course has parents"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/courses [post]
func (c *UserCourseController) AttachCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AttachCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	row, err := c.userCourseService.Attach(ctx, id, req.CourseID, req.OrderNumber)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewUserCourseResponse(row)))
}

// DetachCourse removes a course from the user's plan
// @Summary Detach a course from a user's plan
// @Description Removes the enrollment and compacts the remaining plan order
// @Tags user-courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Param courseId path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Course detached successfully"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/courses/{courseId} [delete]
func (c *UserCourseController) DetachCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.userCourseService.Detach(ctx, id, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course detached successfully"))
}

// RepositionCourse moves a course within the user's plan
// @Summary Reposition a course in a user's plan
// @Description Moves the course to a new plan position. A null orderNumber
// @Description moves it to the end.
// @Tags user-courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Param courseId path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.RepositionRequest true "New position"
// @Success 200 {object} dto.APIResponse "Course repositioned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid position"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/courses/{courseId}/position [patch]
func (c *UserCourseController) RepositionCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.RepositionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.userCourseService.Reposition(ctx, id, courseID, req.OrderNumber); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course repositioned successfully"))
}

// ReorderCourses applies a full permutation to the user's plan
// @Summary Reorder a user's course plan
// @Description Applies a complete new ordering to the user's plan. The payload
// @Description must cover every enrollment exactly once with positions 1..N.
// @Tags user-courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Param request body dto.ReorderRequest true "Full permutation"
// @Success 200 {object} dto.APIResponse "Plan reordered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Payload is not a permutation of the current plan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/courses/order [put]
func (c *UserCourseController) ReorderCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.userCourseService.Reorder(ctx, id, req.Positions()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Plan reordered successfully"))
}
