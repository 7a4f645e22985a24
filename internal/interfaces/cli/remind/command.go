// Package remind runs a single reminder sweep from the command line, for
// cron-driven deployments that do not keep the scheduler running.
package remind

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harvestbox/subscriptions/internal/infrastructure/database"
	"github.com/harvestbox/subscriptions/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/harvestbox/subscriptions/internal/interfaces/http"
	"github.com/harvestbox/subscriptions/internal/shared/constants"
)

var opts bootstrap.Options

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send due delivery reminders once",
		Long:  `Run one reminder sweep over subscriptions whose next delivery falls inside the reminder window, then exit.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(&opts, true)
	if err != nil {
		return err
	}
	defer database.Close()

	router, err := httpRouter.NewRouter(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	defer router.Shutdown()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Reminder.SweepTimeout())
	defer cancel()

	result, err := router.SweepReminders(ctx)
	if err != nil {
		return fmt.Errorf("reminder sweep failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if result.Skipped {
		fmt.Fprintln(out, "A reminder sweep is already running, nothing sent")
		return nil
	}
	fmt.Fprintf(out, "Sent %d reminder(s) out of %d candidate(s), %d failed\n",
		result.SentCount, result.Candidates, result.FailedCount)
	return nil
}
