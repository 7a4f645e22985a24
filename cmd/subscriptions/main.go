package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/harvestbox/subscriptions/internal/interfaces/cli/migrate"
	"github.com/harvestbox/subscriptions/internal/interfaces/cli/remind"
	"github.com/harvestbox/subscriptions/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "HarvestBox subscription service",
		Long:  `Recurring delivery subscriptions with reminder emails, confirmation links and admin tooling.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		remind.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
