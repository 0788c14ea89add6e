package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/controllers"
	"github.com/akarpenko/studyflow/internal/middleware"
)

// SetupRouter configures all application routes. Reads are public; every
// mutating route sits behind the API key middleware.
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	hierarchyController *controllers.HierarchyController,
	teacherCourseController *controllers.TeacherCourseController,
	userCourseController *controllers.UserCourseController,
	materialController *controllers.MaterialController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public read routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetAllCourses)
		courses.GET("/:id", courseController.GetCourseByID)
		courses.GET("/:id/parents", hierarchyController.ListParents)
		courses.GET("/:id/children", hierarchyController.ListChildren)
		courses.GET("/:id/descendants", hierarchyController.ListDescendants)
		courses.GET("/:id/teachers", teacherCourseController.ListTeachers)
		courses.GET("/:id/materials", materialController.ListMaterials)
	}

	v1.GET("/teachers/:id/courses", teacherCourseController.ListTeacherCourses)
	v1.GET("/users/:id/courses", userCourseController.ListUserCourses)
	v1.GET("/materials/:id", materialController.GetMaterialByID)

	// --- Protected mutation routes ---
	protected := v1.Group("")
	protected.Use(authMiddleware.RequireAPIKey())
	{
		coursesProtected := protected.Group("/courses")
		{
			coursesProtected.POST("", courseController.CreateCourse)
			coursesProtected.PUT("/:id", courseController.UpdateCourse)
			coursesProtected.DELETE("/:id", courseController.DeleteCourse)

			// Hierarchy mutation
			coursesProtected.POST("/:id/parents", hierarchyController.AddParent)
			coursesProtected.PUT("/:id/parents", hierarchyController.MoveCourse)
			coursesProtected.DELETE("/:id/parents/:parentId", hierarchyController.RemoveParent)
			coursesProtected.PATCH("/:id/children/:childId/position", hierarchyController.RepositionChild)
			coursesProtected.PUT("/:id/children/order", hierarchyController.ReorderChildren)

			// Teacher links
			coursesProtected.POST("/:id/teachers", teacherCourseController.LinkTeacher)
			coursesProtected.DELETE("/:id/teachers/:teacherId", teacherCourseController.UnlinkTeacher)

			// Materials
			coursesProtected.POST("/:id/materials", materialController.CreateMaterial)
			coursesProtected.PUT("/:id/materials/order", materialController.ReorderMaterials)
		}

		usersProtected := protected.Group("/users")
		{
			usersProtected.POST("/:id/courses", userCourseController.AttachCourse)
			usersProtected.DELETE("/:id/courses/:courseId", userCourseController.DetachCourse)
			usersProtected.PATCH("/:id/courses/:courseId/position", userCourseController.RepositionCourse)
			usersProtected.PUT("/:id/courses/order", userCourseController.ReorderCourses)
		}

		materialsProtected := protected.Group("/materials")
		{
			materialsProtected.PUT("/:id", materialController.UpdateMaterial)
			materialsProtected.DELETE("/:id", materialController.DeleteMaterial)
			materialsProtected.PATCH("/:id/position", materialController.RepositionMaterial)
		}
	}
}
