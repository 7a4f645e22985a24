package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/infrastructure/adapters"
	"github.com/harvestbox/subscriptions/internal/infrastructure/auth"
	"github.com/harvestbox/subscriptions/internal/infrastructure/cache"
	"github.com/harvestbox/subscriptions/internal/infrastructure/config"
	"github.com/harvestbox/subscriptions/internal/infrastructure/email"
	"github.com/harvestbox/subscriptions/internal/infrastructure/pubsub"
	"github.com/harvestbox/subscriptions/internal/infrastructure/ratelimit"
	"github.com/harvestbox/subscriptions/internal/infrastructure/scheduler"
	"github.com/harvestbox/subscriptions/internal/infrastructure/token"
	"github.com/harvestbox/subscriptions/internal/interfaces/http/middleware"
	"github.com/harvestbox/subscriptions/internal/shared/constants"
	shareddb "github.com/harvestbox/subscriptions/internal/shared/db"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
	"github.com/harvestbox/subscriptions/internal/shared/services/markdown"
)

// eventPublisher is what the container needs from either pubsub backend.
type eventPublisher interface {
	usecases.EventPublisher
	Close() error
}

// services holds the outbound ports handed to the use cases.
type services struct {
	txManager *shareddb.TransactionManager
	tokens    *token.ConfirmationTokenGenerator
	notifier  *email.BreakerNotifier
	catalog   *adapters.ProductCatalogAdapter
	customers *adapters.CustomerDirectoryAdapter
	publisher eventPublisher
	sweepLock usecases.SweepLock
	renderer  *markdown.Renderer
}

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Auth
// ============================================================

func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log

	c.redis = initRedis(cfg, log)
	c.repos = newRepositories(c.db, log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)

	limiter := ratelimit.NewRedisRateLimiter(c.redis)
	c.confirmRateLimiter = middleware.NewRateLimiter(
		limiter,
		"confirm",
		cfg.Reminder.ConfirmRateLimit,
		time.Duration(cfg.Reminder.ConfirmRateWindowSec)*time.Second,
		log,
	)
}

// initRedis connects to Redis. An unreachable server is not fatal: the
// sweep runs unlocked and the rate limiter lets traffic through.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis unavailable, sweep lock and rate limiting degraded", "addr", cfg.Redis.GetAddr(), "error", err)
		return redisClient
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}

// ============================================================
// Section 2: Outbound services - Mail, Events, Catalog, Locks
// ============================================================

func (c *Container) initServices() error {
	cfg := c.cfg
	log := c.log

	smtp := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Server.BaseURL,
		ConfirmPath: cfg.Reminder.ConfirmPath,
	})
	notifier := email.NewBreakerNotifier(smtp, email.BreakerConfig{
		FailureThreshold: cfg.Email.BreakerFailureThreshold,
		OpenTimeout:      time.Duration(cfg.Email.BreakerOpenSeconds) * time.Second,
	}, log.Named("mail"))

	var publisher eventPublisher
	if cfg.RabbitMQ.Enabled() {
		rabbit, err := pubsub.NewRabbitMQEventPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log.Named("events"))
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		publisher = rabbit
	} else {
		log.Infow("RabbitMQ not configured, domain events are only logged")
		publisher = pubsub.NewNoopEventPublisher(log.Named("events"))
	}

	c.svcs = &services{
		txManager: shareddb.NewTransactionManager(c.db),
		tokens:    token.NewConfirmationTokenGenerator(),
		notifier:  notifier,
		catalog:   adapters.NewProductCatalogAdapter(c.db),
		customers: adapters.NewCustomerDirectoryAdapter(c.db),
		publisher: publisher,
		sweepLock: cache.NewRedisSweepLock(c.redis, constants.RedisKeyReminderSweepLock, log),
		renderer:  markdown.NewRenderer(),
	}
	return nil
}

// ============================================================
// Section 4: Scheduler jobs
// ============================================================

func (c *Container) initScheduler() error {
	schedulerManager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler manager: %w", err)
	}

	if err := schedulerManager.RegisterReminderSweepJob(
		c.ucs.sendDueRemindersUC,
		c.cfg.Reminder.SweepInterval(),
		c.cfg.Reminder.SweepTimeout(),
	); err != nil {
		return fmt.Errorf("failed to register reminder sweep job: %w", err)
	}

	c.schedulerManager = schedulerManager
	return nil
}
