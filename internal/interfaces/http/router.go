package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appcurrency "github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/infrastructure/auth"
	"github.com/tripdesk/tripdesk/internal/infrastructure/config"
	"github.com/tripdesk/tripdesk/internal/infrastructure/metrics"
	"github.com/tripdesk/tripdesk/internal/infrastructure/permission"
	"github.com/tripdesk/tripdesk/internal/infrastructure/ratelimit"
	"github.com/tripdesk/tripdesk/internal/interfaces/http/handlers"
	"github.com/tripdesk/tripdesk/internal/interfaces/http/middleware"
	"github.com/tripdesk/tripdesk/internal/interfaces/http/routes"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
	"github.com/tripdesk/tripdesk/internal/shared/utils"

	_ "github.com/tripdesk/tripdesk/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	engine               *gin.Engine
	currencyHandler      *handlers.CurrencyHandler
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
	metrics              *metrics.Metrics
	logger               logger.Interface
}

// Dependencies are the process-wide services the router is built from.
// Limiter may be nil, which disables rate limiting.
type Dependencies struct {
	Provider *appcurrency.RateProvider
	Metrics  *metrics.Metrics
	Limiter  ratelimit.RateLimiter
	Logger   logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(cfg *config.Config, deps Dependencies) (*Router, error) {
	if err := utils.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	enforcer, err := permission.NewCurrencyEnforcer(deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)

	var limiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = deps.Limiter
	}

	return &Router{
		engine:               gin.New(),
		currencyHandler:      handlers.NewCurrencyHandler(deps.Provider, deps.Metrics, deps.Logger),
		authMiddleware:       middleware.NewAuthMiddleware(jwtService, deps.Logger),
		permissionMiddleware: middleware.NewPermissionMiddleware(enforcer, deps.Logger),
		rateLimiter:          middleware.NewRateLimiter(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, deps.Logger),
		metrics:              deps.Metrics,
		logger:               deps.Logger,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.RequestLogger(logger.Get()))
	r.engine.Use(middleware.Recovery(logger.Get()))
	r.engine.Use(middleware.Metrics(r.metrics))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.currencyHandler.HealthCheck)
	r.engine.GET("/version", r.currencyHandler.Version)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupCurrencyRoutes(r.engine, &routes.CurrencyRouteConfig{
		CurrencyHandler:      r.currencyHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
		RateLimiter:          r.rateLimiter,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
