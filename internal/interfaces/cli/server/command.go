package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	appcurrency "github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/infrastructure/config"
	"github.com/tripdesk/tripdesk/internal/infrastructure/metrics"
	"github.com/tripdesk/tripdesk/internal/infrastructure/ratelimit"
	"github.com/tripdesk/tripdesk/internal/infrastructure/scheduler"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/tripdesk/tripdesk/internal/interfaces/http"
	"github.com/tripdesk/tripdesk/internal/shared/goroutine"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

const defaultShutdownTimeout = 30 * time.Second

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the tripdesk currency HTTP server with the specified configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
}

func run(opts *bootstrap.Options) error {
	cfg, err := bootstrap.Setup(opts)
	if err != nil {
		return err
	}

	log := logger.NewLogger()
	log.Infow("starting server",
		"mode", cfg.Server.Mode,
		"live_rates", cfg.Currency.APIKey != "",
		"cache_ttl", cfg.Currency.CacheTTL,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	m := metrics.NewMetrics()
	provider := bootstrap.NewRateProvider(&cfg.Currency, log, appcurrency.WithMetrics(m))

	limiter, closeRedis := newLimiter(cfg, log)
	defer closeRedis()

	warmup, err := startWarmup(cfg, provider, log)
	if err != nil {
		return err
	}
	if warmup != nil {
		defer func() {
			if err := warmup.Stop(); err != nil {
				log.Errorw("failed to stop scheduler", "error", err)
			}
		}()
	}

	router, err := httpRouter.NewRouter(cfg, httpRouter.Dependencies{
		Provider: provider,
		Metrics:  m,
		Limiter:  limiter,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	router.SetupRoutes(cfg)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Infow("shutting down server...")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// newLimiter returns a redis backed limiter, or nil when redis is disabled or
// unreachable. Rate limiting is best effort and never blocks start-up.
func newLimiter(cfg *config.Config, log logger.Interface) (ratelimit.RateLimiter, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}
	}

	client, err := bootstrap.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		log.Warnw("redis unavailable, rate limiting disabled", "error", err)
		return nil, func() {}
	}
	if client == nil {
		log.Infow("redis not configured, rate limiting disabled")
		return nil, func() {}
	}

	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return ratelimit.NewRedisRateLimiter(client), func() {
		if err := client.Close(); err != nil {
			log.Warnw("failed to close redis client", "error", err)
		}
	}
}

func startWarmup(cfg *config.Config, provider *appcurrency.RateProvider, log logger.Interface) (*scheduler.SchedulerManager, error) {
	if cfg.Currency.WarmupInterval <= 0 {
		return nil, nil
	}

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterRateWarmupJob(provider, cfg.Currency.WarmupInterval, cfg.Currency.Timeout); err != nil {
		return nil, fmt.Errorf("failed to register rate warm-up job: %w", err)
	}
	manager.Start()

	return manager, nil
}
