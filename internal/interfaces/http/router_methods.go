package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/infrastructure/config"
	"github.com/harvestbox/subscriptions/internal/interfaces/http/middleware"
)

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.health)

	r.setupReminderRoutes()
	r.setupSubscriptionRoutes()
	r.setupAdminRoutes()
}

// setupReminderRoutes configures the sweep trigger, the public confirmation
// link and reminder statistics.
func (r *Router) setupReminderRoutes() {
	reminders := r.engine.Group("/subscription-reminders")
	{
		// Public: the token in the link is the credential.
		reminders.GET("/confirm", r.confirmRateLimiter.Limit(), r.reminderHandler.GetConfirmation)
		reminders.POST("/confirm", r.confirmRateLimiter.Limit(), r.reminderHandler.Confirm)

		reminders.POST("/send", r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin(), r.reminderHandler.SendReminders)
		reminders.GET("/statistics", r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin(), r.reminderHandler.GetStatistics)
	}
}

// setupSubscriptionRoutes configures the owner's subscription routes
func (r *Router) setupSubscriptionRoutes() {
	subscriptions := r.engine.Group("/subscriptions")
	subscriptions.Use(r.authMiddleware.RequireAuth())
	{
		subscriptions.POST("", r.subscriptionHandler.CreateSubscription)
		subscriptions.GET("", r.subscriptionHandler.ListUserSubscriptions)
		subscriptions.GET("/:id", r.subscriptionHandler.GetSubscription)
		subscriptions.PUT("/:id/pause", r.subscriptionHandler.PauseSubscription)
		subscriptions.PUT("/:id/resume", r.subscriptionHandler.ResumeSubscription)
		subscriptions.PUT("/:id/cancel", r.subscriptionHandler.CancelSubscription)
	}
}

// setupAdminRoutes configures admin-only tools
func (r *Router) setupAdminRoutes() {
	admin := r.engine.Group("/admin")
	admin.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin())
	{
		admin.POST("/subscriptions/send-reminders", r.reminderHandler.AdminSendReminders)
	}
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// StartScheduler starts the periodic reminder sweep.
func (r *Router) StartScheduler() {
	r.container.schedulerManager.Start()
}

// SweepReminders runs one reminder sweep outside the scheduler.
func (r *Router) SweepReminders(ctx context.Context) (*dto.SweepResultDTO, error) {
	return r.container.ucs.sendDueRemindersUC.Sweep(ctx)
}

// Shutdown gracefully shuts down the router
func (r *Router) Shutdown() {
	r.container.Shutdown()
}
