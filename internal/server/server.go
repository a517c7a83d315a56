package server

import (
	"context"
	"os"

	"ai-docchat/internal/bootstrap"
	"ai-docchat/internal/config"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
	logger    logger.ILogger
}

func New(cfg *config.Config, container *bootstrap.Container, sysLogger logger.ILogger) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler:          serverutils.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	if cfg.IsProduction() {
		if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
			app.Static("/", cfg.Server.StaticDir, fiber.Static{Index: "index.html"})
		} else {
			sysLogger.Warn("SERVER", "Static directory not found, client not mounted", map[string]interface{}{
				"dir": cfg.Server.StaticDir,
			})
		}
	}

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
		logger:    sysLogger,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.logger.Info("SERVER", "Server is running", map[string]interface{}{
		"address": "http://localhost:" + s.cfg.Server.Port,
		"prefix":  s.cfg.Server.APIPrefix,
	})
	return s.app.Listen(":" + s.cfg.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	var api fiber.Router = app
	if cfg.Server.APIPrefix != "" {
		api = app.Group(cfg.Server.APIPrefix)
	}

	c.HealthController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
}
