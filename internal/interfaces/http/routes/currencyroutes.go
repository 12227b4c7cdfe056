package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripdesk/tripdesk/internal/interfaces/http/handlers"
	"github.com/tripdesk/tripdesk/internal/interfaces/http/middleware"
)

// CurrencyRouteConfig holds dependencies for currency routes.
type CurrencyRouteConfig struct {
	CurrencyHandler      *handlers.CurrencyHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimiter          *middleware.RateLimiter
}

// SetupCurrencyRoutes configures the public currency routes and the
// operator-only refresh endpoint.
func SetupCurrencyRoutes(engine *gin.Engine, cfg *CurrencyRouteConfig) {
	currency := engine.Group("/currency")
	{
		public := currency.Group("")
		public.Use(cfg.RateLimiter.Limit())
		{
			public.GET("/supported", cfg.CurrencyHandler.ListSupported)
			public.GET("/rates", cfg.CurrencyHandler.GetRates)
			public.POST("/convert", cfg.CurrencyHandler.Convert)
			public.GET("/rate/:from/:to", cfg.CurrencyHandler.GetExchangeRate)
			public.GET("/info/:code", cfg.CurrencyHandler.GetCurrencyInfo)
			public.POST("/format", cfg.CurrencyHandler.FormatAmount)
			public.GET("/status", cfg.CurrencyHandler.GetCacheStatus)
		}

		currency.POST("/refresh",
			cfg.AuthMiddleware.RequireAuth(),
			cfg.PermissionMiddleware.RequirePermission("/currency/refresh", http.MethodPost),
			cfg.CurrencyHandler.RefreshRates,
		)
	}
}
