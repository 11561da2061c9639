// Package main provides the PinkFlow API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/pinkflow/pinkflow/internal/demo"
	"github.com/pinkflow/pinkflow/pkg/manager"
	"github.com/pinkflow/pinkflow/pkg/web"
)

type API struct {
	logger   *slog.Logger
	manager  *manager.Manager
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, mgr *manager.Manager) *API {
	return &API{
		logger:   logger,
		manager:  mgr,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterDemoWorkflows registers the built-in example workflows so a fresh
// server has something to execute.
func (a *API) RegisterDemoWorkflows(ctx context.Context) error {
	workflows, err := demo.All()
	if err != nil {
		return err
	}

	for _, wf := range workflows {
		if err := a.manager.RegisterWorkflow(ctx, wf); err != nil {
			return err
		}
	}

	a.logger.InfoContext(ctx, "Demo workflows registered", "count", len(workflows))

	return nil
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.manager, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("PinkFlow API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Get("/:id", handlers.GetWorkflow)
	w.Post("/:id/execute", handlers.ExecuteWorkflow)

	app.Get("/executions", handlers.GetExecutionHistory)
	app.Get("/statistics", handlers.GetStatistics)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
