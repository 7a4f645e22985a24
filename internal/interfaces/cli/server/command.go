package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/harvestbox/subscriptions/internal/infrastructure/database"
	"github.com/harvestbox/subscriptions/internal/infrastructure/migration"
	"github.com/harvestbox/subscriptions/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/harvestbox/subscriptions/internal/interfaces/http"
	"github.com/harvestbox/subscriptions/internal/shared/constants"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

var (
	opts          bootstrap.Options
	autoMigrate   bool
	withScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the subscription HTTP server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include source locations on every log line")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&withScheduler, "with-scheduler", true, "Run the reminder sweep scheduler in this process")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(&opts, true)
	if err != nil {
		return err
	}
	defer database.Close()

	env := opts.Env
	cfg.Server.Mode = mapEnvToGinMode(env)

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"with_scheduler", withScheduler,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if autoMigrate {
		if env == constants.EnvProduction {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		manager, err := migration.NewManager(env, cfg.Database.Driver, log)
		if err != nil {
			return err
		}
		if err := manager.Migrate(database.Get()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	router, err := httpRouter.NewRouter(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	router.SetupRoutes(cfg)
	defer router.Shutdown()

	if withScheduler {
		router.StartScheduler()
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return gin.ReleaseMode
	case constants.EnvTest, "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
