package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"record-resolver/core/config"
	"record-resolver/core/database"
	"record-resolver/core/loader"
	"record-resolver/core/logger"
	"record-resolver/core/middleware/auth"
	"record-resolver/core/middleware/rayid"

	"record-resolver/feature/dedupe"
	"record-resolver/feature/dedupe/audit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "record-resolver/docs/swagger"
)

// @title Record Resolver API
// @version 1.0
// @description API for resolving record conflicts in datasets.
// @host localhost:8080
// @BasePath /api

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the record resolver server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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
		zap.ReplaceGlobals(logg)

		// 3. Connect to Audit Database (Optional)
		// Runs archive when it is reachable; dedupe works without it.
		var archive *audit.Archive
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional audit database connection failed", zap.Error(err))
		} else {
			archive = audit.NewArchive(conn, logg)
			if err := archive.Migrate(); err != nil {
				logg.Warn("Audit archive migration failed", zap.Error(err))
				archive = nil
			} else {
				logg.Info("Connected to audit database")
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimitBytes(),
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(dedupe.NewFeature(logg, cfg.Resolver, archive))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features under the API prefix
		api := app.Group("/api")
		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
