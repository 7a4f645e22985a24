package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/infrastructure/auth"
	"github.com/harvestbox/subscriptions/internal/infrastructure/config"
	"github.com/harvestbox/subscriptions/internal/infrastructure/scheduler"
	"github.com/harvestbox/subscriptions/internal/interfaces/http/middleware"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases, handlers,
// and background services. It is responsible for wiring everything together and
// providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Outbound services
	svcs *services

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	jwtSvc             *auth.JWTService
	authMiddleware     *middleware.AuthMiddleware
	confirmRateLimiter *middleware.RateLimiter

	// Background services
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a new Container with all dependencies wired together.
// Sections run in dependency order; each reads what the previous ones set.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Auth
	c.initInfrastructure()

	// Section 2: Outbound services - Mail, Events, Catalog, Locks
	if err := c.initServices(); err != nil {
		return nil, err
	}

	// Section 3: Use cases and handlers
	c.ucs = newUseCases(c.repos, c.svcs, cfg, log)
	c.hdlrs = newHandlers(c.ucs, log)

	// Section 4: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Shutdown stops background work and releases outbound connections.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.svcs != nil && c.svcs.publisher != nil {
		if err := c.svcs.publisher.Close(); err != nil {
			c.log.Warnw("failed to close event publisher", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
