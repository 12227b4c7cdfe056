package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderUserAgent     = "User-Agent"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeySubject   = "subject"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"

	// Roles
	RoleAdmin    = "admin"
	RoleOperator = "operator"

	// Redis key prefixes
	RedisKeyRateLimit = "tripdesk:ratelimit:"

	// Default base currency of every rate snapshot
	DefaultBaseCurrency = "USD"
)
