package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harvestbox/subscriptions/internal/infrastructure/database"
	"github.com/harvestbox/subscriptions/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/harvestbox/subscriptions/internal/interfaces/http"
	"github.com/harvestbox/subscriptions/internal/shared/constants"
)

// The worker runs only the reminder scheduler, for deployments that keep
// background jobs off the API replicas.
func main() {
	opts := bootstrap.Options{Env: constants.EnvDevelopment}
	if len(os.Args) > 1 {
		opts.Env = os.Args[1]
	}

	cfg, log, err := bootstrap.Init(&opts, true)
	if err != nil {
		fmt.Printf("failed to start worker: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	log.Infow("starting reminder worker", "environment", opts.Env)

	router, err := httpRouter.NewRouter(database.Get(), cfg, log)
	if err != nil {
		log.Errorw("failed to build services", "error", err)
		return
	}
	defer router.Shutdown()

	router.StartScheduler()
	log.Infow("reminder worker started",
		"interval", cfg.Reminder.SweepInterval().String(),
		"window_days", cfg.Reminder.WindowDays,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig.String())
}
