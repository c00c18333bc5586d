package courseRoutes

import (
	controllers "madrasa/controllers/course"
	"madrasa/middleware"
	validators "madrasa/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Timeline and lessons
	userGroup.Get("/:id/timeline", middleware.JWTMiddleware, validators.CourseTimeline(), controllers.GetCourseTimeline)

	lessonGroup := app.Group("/lesson")
	lessonGroup.Get("/:lesson_id", middleware.JWTMiddleware, validators.GetLesson(), controllers.GetLesson)
	lessonGroup.Post("/:lesson_id/watch", middleware.JWTMiddleware, validators.MarkLessonWatched(), controllers.MarkLessonWatched)

	// Exams
	examGroup := app.Group("/exam")
	examGroup.Get("/:exam_id", middleware.JWTMiddleware, validators.GetExam(), controllers.GetExam)
	examGroup.Post("/:exam_id/submit", middleware.JWTMiddleware, validators.SubmitExam(), controllers.SubmitExam)
	examGroup.Get("/:exam_id/results", middleware.JWTMiddleware, validators.GetExamResults(), controllers.GetExamResults)
	examGroup.Post("/:exam_id/retake/request", middleware.JWTMiddleware, validators.RequestRetake(), controllers.RequestRetake)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Certificate request
	userGroup.Post("/:id/certificate/request", middleware.JWTMiddleware, validators.RequestCertificate(), controllers.RequestCertificate)
}
