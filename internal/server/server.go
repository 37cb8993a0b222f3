// Package server assembles the Fiber application from its handlers.
package server

import (
	"time"

	"mediahub/internal/handlers"
	"mediahub/internal/middleware"
	"mediahub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps are the services the routes are built on.
type Deps struct {
	AuthService    *services.AuthService
	ContactService *services.ContactService
	HistoryService *services.HistoryService
	Media          handlers.MediaGateway
	CORSOrigins    string
	// RequestLogging enables the per-request access log.
	RequestLogging bool
}

// New builds the application with every route registered.
// Search history routes require a bearer token; everything else is public.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "mediahub",
	})

	app.Use(recover.New())
	if deps.RequestLogging {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handlers.NewAuthHandler(deps.AuthService).RegisterRoutes(app)
	handlers.NewContactHandler(deps.ContactService).RegisterRoutes(app)
	handlers.NewMediaHandler(deps.Media).RegisterRoutes(app)

	history := app.Group("/search_history", middleware.AuthRequired(deps.AuthService))
	handlers.NewHistoryHandler(deps.HistoryService, deps.AuthService).RegisterRoutes(history)

	return app
}
