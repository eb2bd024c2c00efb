package cmd

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"base-janitor/core/config"
	"base-janitor/core/history"
	"base-janitor/core/logger"
	"base-janitor/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// serveCmd starts the read-only status server over the run history.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history over HTTP",
	Long: `Starts a small read-only HTTP server exposing the recorded reconciliation
runs, so janitor activity can be inspected without shell access.

Endpoints:
  GET /healthz       liveness probe
  GET /runs          recent runs (newest first, ?limit=N)
  GET /runs/:id      one run with its per-entity deletion records`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		// 3. Open the history store
		store, err := history.Open(cfg.History)
		if err != nil {
			logg.Fatal("Failed to open history store", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// Request logging
		app.Use(func(c *fiber.Ctx) error {
			logg.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				logg.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// Protect the history endpoints
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		app.Get("/runs", func(c *fiber.Ctx) error {
			limit := c.QueryInt("limit", 20)
			runs, err := store.ListRuns(c.Context(), limit)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.JSON(runs)
		})

		app.Get("/runs/:id", func(c *fiber.Ctx) error {
			run, err := store.GetRun(c.Context(), c.Params("id"))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "run not found")
				}
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.JSON(run)
		})

		// 5. Start Server
		go func() {
			logg.Info("Starting status server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down status server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
