package supportRoutes

import (
	controller "madrasa/controllers/support"
	"madrasa/middleware"
	validator "madrasa/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	support := app.Group("/support")

	support.Post("/create", validator.CreateSupportTicket(), middleware.JWTMiddleware, controller.CreateSupportTicket)
	support.Get("/list", validator.TicketList(), middleware.JWTMiddleware, controller.TicketList)
	support.Get("/admin-list", validator.AdminTicketList(), middleware.JWTMiddleware, controller.AdminTicketList)
	support.Patch("/admin/:id/status", validator.UpdateTicketStatus(), middleware.JWTMiddleware, controller.UpdateTicketStatus)
}
