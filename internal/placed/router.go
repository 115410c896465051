package placed

import (
	"github.com/gofiber/fiber/v2"

	"github.com/urbansense/placement-core/pkg/config"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, store *JobStore, executor *Executor, region string, defaults *config.Optimisation, repo ResultRepository) {
	handler := NewHandler(store, executor, region, defaults, repo)

	app.Get("/health", handler.HealthCheck)

	api := app.Group("/api/v1")
	{
		api.Post("/jobs", handler.CreateJob)
		api.Get("/jobs", handler.ListJobs)
		api.Get("/jobs/:id", handler.GetJob)
		api.Delete("/jobs/:id", handler.CancelJob)
		api.Get("/jobs/:id/result", handler.GetResult)
		api.Get("/jobs/:id/plot", handler.GetPlot)
	}
}
