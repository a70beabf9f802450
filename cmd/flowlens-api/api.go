// Package main provides the FlowLens API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/conexia/flowlens/pkg/services"
	"github.com/conexia/flowlens/pkg/web"
)

type API struct {
	logger            *slog.Logger
	executionsService *services.Executions
	analysisService   *services.Analysis
	auth              *web.Auth
	validate          *validator.Validate
	defaultWorkflowID string
}

func NewAPI(
	logger *slog.Logger,
	executionsService *services.Executions,
	analysisService *services.Analysis,
	auth *web.Auth,
	defaultWorkflowID string,
) *API {
	return &API{
		logger:            logger,
		executionsService: executionsService,
		analysisService:   analysisService,
		auth:              auth,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		defaultWorkflowID: defaultWorkflowID,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.executionsService, a.analysisService, a.validate, a.defaultWorkflowID)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("FlowLens API")
	})

	auth := app.Group("/auth")
	auth.Post("/login", a.auth.Login)
	auth.Post("/logout", a.auth.Logout)

	e := app.Group("/executions", a.auth.Middleware())
	e.Get("/", handlers.GetExecutions)
	e.Get("/:id", handlers.GetExecution)

	s := app.Group("/sessions", a.auth.Middleware())
	s.Post("/:id/analyze", handlers.AnalyzeSession)
	s.Get("/:id/analysis", handlers.GetSessionAnalysis)
	s.Delete("/:id/analysis", handlers.DeleteSessionAnalysis)

	app.Get("/metrics", handlers.GetMetrics, a.auth.Middleware())

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
