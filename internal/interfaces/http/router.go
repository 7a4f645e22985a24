// Package http assembles the HTTP surface: it wires infrastructure into use
// cases and handlers and mounts them on a gin engine.
package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/infrastructure/config"
	"github.com/harvestbox/subscriptions/internal/interfaces/http/handlers"
	"github.com/harvestbox/subscriptions/internal/interfaces/http/middleware"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	container *Container
	engine    *gin.Engine
	logger    logger.Interface

	subscriptionHandler *handlers.SubscriptionHandler
	reminderHandler     *handlers.ReminderHandler

	authMiddleware     *middleware.AuthMiddleware
	confirmRateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Router{
		container:           c,
		engine:              c.engine,
		logger:              log,
		subscriptionHandler: c.hdlrs.subscriptionHandler,
		reminderHandler:     c.hdlrs.reminderHandler,
		authMiddleware:      c.authMiddleware,
		confirmRateLimiter:  c.confirmRateLimiter,
	}, nil
}
