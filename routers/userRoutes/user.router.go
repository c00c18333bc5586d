package userProfileRoutes

import (
	userProfileController "madrasa/controllers/userControllers"
	"madrasa/middleware"
	userProfileValidator "madrasa/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	userGroup.Put("/profile", userProfileValidator.UpdateProfile(), middleware.JWTMiddleware, userProfileController.UpdateProfile)
	userGroup.Post("/profile/image", middleware.JWTMiddleware, userProfileController.UploadProfileImage)
}
