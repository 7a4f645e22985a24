// Package bootstrap holds the startup steps shared by every command.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/harvestbox/subscriptions/internal/infrastructure/config"
	"github.com/harvestbox/subscriptions/internal/infrastructure/database"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// Options are the flags every command accepts.
type Options struct {
	Env        string
	ConfigPath string
	Verbose    bool
}

// ResolveEnv lets the ENV variable override the --env flag.
func (o *Options) ResolveEnv() string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		o.Env = envVar
	}
	return o.Env
}

// Init loads configuration, then initializes the logger, the business
// timezone and, when withDB is set, the database connection.
func Init(opts *Options, withDB bool) (*config.Config, logger.Interface, error) {
	env := opts.ResolveEnv()

	cfg, err := config.Load(env, opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, opts.Verbose); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	// Initialize business timezone for date boundary calculations
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if withDB {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return cfg, log, nil
}
