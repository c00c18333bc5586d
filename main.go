package main

import (
	"log"

	"madrasa/config"
	"madrasa/database"
	authRoutes "madrasa/routers/authRoutes"
	courseRoutes "madrasa/routers/courseRoutes"
	programRoutes "madrasa/routers/programRoutes"
	supportRoutes "madrasa/routers/supportRoutes"
	userProfileRoutes "madrasa/routers/userRoutes"
	"madrasa/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	programRoutes.SetupProgramRoutes(app)
	programRoutes.SetupAdminProgramRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	supportRoutes.SetupSupportRoutes(app)

	// Nightly enrollment progress reconciliation and retake cleanup
	utils.InitializeProgressScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
