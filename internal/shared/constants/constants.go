package constants

const (
	// Environments
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableSubscriptions = "subscriptions"
	TableConfirmations = "subscription_confirmations"
	TableProducts      = "products"
	TableUsers         = "users"

	// Redis keys
	RedisKeyReminderSweepLock = "harvestbox:lock:reminder-sweep"
	RedisKeyRateLimitPrefix   = "harvestbox:ratelimit:"
)
