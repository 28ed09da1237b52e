package server

import (
	"log"

	"resume-turns-be/internal/bootstrap"
	"resume-turns-be/internal/config"
	"resume-turns-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := NewApp(cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// NewApp builds the fiber app with middleware and every route mounted
// under /api.
func NewApp(cfg *config.Config, container *bootstrap.Container) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024, // 10MB
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	if cfg.Tracing.Enabled {
		app.Use(otelfiber.Middleware())
	}

	registerRoutes(app, container)
	return app
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.HealthController.RegisterRoutes(api)
	c.VersionWatchHandler.RegisterRoutes(api)
	c.VersionController.RegisterRoutes(api)
	c.LLMController.RegisterRoutes(api)
}
