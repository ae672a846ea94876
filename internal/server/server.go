package server

import (
	"log"

	"bistro-cms-be/internal/bootstrap"
	"bistro-cms-be/internal/config"
	"bistro-cms-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		// batch uploads carry several images per request
		BodyLimit: int(cfg.Storage.MaxUploadBytes) * 10,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(recover.New())

	// Static (local image storage only)
	if cfg.Storage.Driver != "gcs" {
		app.Static("/uploads", cfg.Storage.LocalDir)
	}

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.SitemapController.RegisterRoutes(app)

	api := app.Group("/api")

	// The socket route checks its own token, so it must precede the
	// authenticated /editor/v1 group.
	c.NotificationHandler.RegisterRoutes(api)

	c.AuthController.RegisterRoutes(api)
	c.BlogController.RegisterRoutes(api)
	c.MenuController.RegisterRoutes(api)
	c.MarqueeController.RegisterRoutes(api)
	c.UploadController.RegisterRoutes(api)
	c.EditorController.RegisterRoutes(api)
}
