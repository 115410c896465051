package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/urbansense/placement-core/internal/placed"
	"github.com/urbansense/placement-core/internal/repository/postgres"
	"github.com/urbansense/placement-core/internal/sites"
	"github.com/urbansense/placement-core/pkg/config"
	"github.com/urbansense/placement-core/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the daemon configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.SetDefault(logger.New(cfg.LogLevel, os.Stderr))

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	table, err := config.LoadSiteTable(cfg.Region.SitesFile)
	if err != nil {
		logger.Error("failed to load site table", "error", err)
		os.Exit(1)
	}
	set, err := sites.FromTable(table)
	if err != nil {
		logger.Error("invalid site table", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded candidate sites", "region", set.Region(), "n_sites", set.N())

	repo, pool := buildRepository(cfg.DatabaseURL)
	if pool != nil {
		defer pool.Close()
	}

	store := placed.NewJobStore()
	executor := placed.NewExecutor(store, set, repo)

	app := fiber.New(fiber.Config{
		AppName:      "placed",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	placed.SetupRoutes(app, store, executor, set.Region(), cfg.Optimisation, repo)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exited")
}

// buildRepository connects to PostgreSQL when a URL is configured, falling
// back to the in-memory repository otherwise.
func buildRepository(databaseURL string) (placed.ResultRepository, *pgxpool.Pool) {
	if databaseURL == "" {
		logger.Info("no database configured, keeping results in memory")
		return postgres.NewMockRepository(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Warn("could not connect to database, keeping results in memory", "error", err)
		return postgres.NewMockRepository(), nil
	}

	repo := postgres.NewPostgresRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Warn("could not run migrations, keeping results in memory", "error", err)
		pool.Close()
		return postgres.NewMockRepository(), nil
	}

	logger.Info("connected to PostgreSQL")
	return repo, pool
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
