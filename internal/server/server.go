package server

import (
	"log"
	"time"

	"wtf2eat-be/internal/bootstrap"
	"wtf2eat-be/internal/config"
	"wtf2eat-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	bodyLimit       = 64 * 1024
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 2 * time.Second
)

// RouteRegistrar mounts a component's routes under /api.
type RouteRegistrar interface {
	RegisterRoutes(router fiber.Router)
}

type Server struct {
	app  *fiber.App
	addr string
}

// New builds the HTTP app. Writes have no timeout because /api/generate
// streams for as long as a run takes.
func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:     "wtf2eat-be",
		BodyLimit:   bodyLimit,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	})

	app.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.App.CorsAllowedOrigins,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowMethods:     "GET, POST, DELETE, OPTIONS",
		}),
		otelfiber.Middleware(),
		serverutils.ErrorHandlerMiddleware(),
	)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", serverutils.HealthHandler(container.HealthChecks, healthTimeout))

	Mount(app.Group("/api"),
		container.RecommendationController,
		container.PreferenceController,
		container.UsageController,
		container.RecommendationWsHandler,
	)

	return &Server{app: app, addr: ":" + cfg.App.Port}
}

func Mount(api fiber.Router, registrars ...RouteRegistrar) {
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost%s", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown stops accepting connections and waits for in-flight requests,
// open SSE streams included, up to shutdownTimeout.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}
