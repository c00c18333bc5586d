package courseRoutes

import (
	controllers "madrasa/controllers/course"
	"madrasa/middleware"
	validators "madrasa/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course management
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-course"), validators.CreateCourseAdmin(), controllers.CreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-course"), validators.UpdateCourseAdmin(), controllers.UpdateCourse)

	// Content management
	contentGroup := app.Group("/admin/content")
	contentGroup.Post("/lesson", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.CreateLesson(), controllers.CreateLesson)
	contentGroup.Post("/lesson/:lesson_id/publish", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.PublishLesson(), controllers.PublishLesson)
	contentGroup.Post("/exam", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.CreateExamAdmin(), controllers.CreateExam)
	contentGroup.Post("/exam/:exam_id/publish", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.PublishExam(), controllers.PublishExam)

	// Retake reviews
	retakeGroup := app.Group("/admin/retake")
	retakeGroup.Get("/pending", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("review-retakes"), controllers.ListRetakeRequests)
	retakeGroup.Post("/:request_id/review", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("review-retakes"), validators.ReviewRetake(), controllers.ReviewRetake)

	// Certificate issuance
	certGroup := app.Group("/admin/certificate")
	certGroup.Post("/:request_id/approve", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("issue-certificates"), validators.ApproveCertificate(), controllers.ApproveCertificate)
}
