package programRoutes

import (
	controllers "madrasa/controllers/program"
	"madrasa/middleware"
	validators "madrasa/validators/program"

	"github.com/gofiber/fiber/v2"
)

// SetupProgramRoutes sets up student-facing program routes
func SetupProgramRoutes(app *fiber.App) {
	programGroup := app.Group("/program")

	// Program catalog
	programGroup.Get("/list", middleware.JWTMiddleware, validators.ProgramList(), controllers.GetAllPrograms)
	programGroup.Get("/:id", middleware.JWTMiddleware, validators.GetProgramDetail(), controllers.GetProgramDetails)

	// Enrollment
	programGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollProgram(), controllers.EnrollInProgram)

	// Semester content and progress
	programGroup.Get("/:id/semester/:number/content", middleware.JWTMiddleware, validators.GetSemesterContent(), controllers.GetSemesterContent)

	semesterGroup := app.Group("/semester")
	semesterGroup.Get("/:semester_id/progress", middleware.JWTMiddleware, validators.GetSemesterProgress(), controllers.GetSemesterProgress)
}

// SetupAdminProgramRoutes sets up admin program management routes
func SetupAdminProgramRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/program")

	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-program"), validators.CreateProgram(), controllers.CreateProgram)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-program"), validators.UpdateProgram(), controllers.UpdateProgram)
	adminGroup.Post("/:id/semester", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-program"), validators.CreateSemester(), controllers.CreateSemester)

	adminSemesterGroup := app.Group("/admin/semester")
	adminSemesterGroup.Post("/:semester_id/complete", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-program"), validators.MarkSemesterComplete(), controllers.MarkSemesterComplete)
}
