package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/models/dto"
	"github.com/akarpenko/studyflow/internal/app/services"
	"github.com/akarpenko/studyflow/internal/middleware"
)

// TeacherCourseController handles teacher<->course link operations
type TeacherCourseController struct {
	teacherCourseService services.TeacherCourseService
}

// NewTeacherCourseController creates a new TeacherCourseController
func NewTeacherCourseController(teacherCourseService services.TeacherCourseService) *TeacherCourseController {
	return &TeacherCourseController{
		teacherCourseService: teacherCourseService,
	}
}

// ListTeachers retrieves the teachers linked to a course
// @Summary List course teachers
// @Description Retrieves the teachers linked to a course, newest link first
// @Tags teacher-links
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherCourseResponse} "Teachers retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/teachers [get]
func (c *TeacherCourseController) ListTeachers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	links, err := c.teacherCourseService.ListByCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTeacherCourseListResponse(links)))
}

// LinkTeacher attaches a teacher to a root course
// @Summary Link a teacher to a course
// @Description Links the teacher to the course and cascades the link down the
// @Description course's descendant subtree. Courses with parents cannot be
// @Description linked directly.
// @Tags teacher-links
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.LinkTeacherRequest true "Teacher to link"
// @Success 200 {object} dto.APIResponse "Teacher linked successfully"
// @Failure 400 {object} dto.ErrorResponse "User is not a teacher"
// @Failure 404 {object} dto.ErrorResponse "Course or user not found"
// @Failure 409 {object} dto.ErrorResponse "Course has parents"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/teachers [post]
func (c *TeacherCourseController) LinkTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.LinkTeacherRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.teacherCourseService.Link(ctx, req.TeacherID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Teacher linked successfully"))
}

// UnlinkTeacher detaches a teacher from a root course
// @Summary Unlink a teacher from a course
// @Description Removes the teacher's link and retracts inherited subtree links
// @Description that have no other linked path
// @Tags teacher-links
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param teacherId path int true "Teacher ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Teacher unlinked successfully"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Failure 409 {object} dto.ErrorResponse "Course has parents"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/teachers/{teacherId} [delete]
func (c *TeacherCourseController) UnlinkTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}

	if err := c.teacherCourseService.Unlink(ctx, teacherID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Teacher unlinked successfully"))
}

// ListTeacherCourses retrieves the courses a teacher is linked to
// @Summary List a teacher's courses
// @Description Retrieves the courses the teacher is linked to, directly or by
// @Description inheritance
// @Tags teacher-links
// @Produce json
// @Param id path int true "Teacher ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherCourseResponse} "Courses retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teachers/{id}/courses [get]
func (c *TeacherCourseController) ListTeacherCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	links, err := c.teacherCourseService.ListByTeacher(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTeacherCourseListResponse(links)))
}
