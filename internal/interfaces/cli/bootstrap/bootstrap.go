// Package bootstrap holds the start-up steps shared by every command:
// environment and config loading, logger setup and construction of the
// process-wide rate provider.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appcurrency "github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/domain/currency"
	"github.com/tripdesk/tripdesk/internal/infrastructure/config"
	"github.com/tripdesk/tripdesk/internal/infrastructure/exchangerate"
	"github.com/tripdesk/tripdesk/internal/shared/biztime"
	sharedConfig "github.com/tripdesk/tripdesk/internal/shared/config"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

const redisPingTimeout = 3 * time.Second

// Options are the global flags of the tripdesk root command.
type Options struct {
	ConfigFile string
	EnvFile    string
	Env        string
}

// BindFlags registers the global flags on cmd.
func (o *Options) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.ConfigFile, "config", "c", "", "Path to the config file (default ./configs/config.yaml)")
	flags.StringVar(&o.EnvFile, "env-file", ".env", "Dotenv file loaded before the configuration")
	flags.StringVarP(&o.Env, "env", "e", "", "Environment (development, test, production)")
}

// Setup loads the dotenv file and configuration, then initializes the
// logger and business timezone.
func Setup(opts *Options) (*config.Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	env := opts.Env
	if envVar := os.Getenv("ENV"); envVar != "" && env == "" {
		env = envVar
	}

	cfg, err := config.Load(opts.ConfigFile, MapEnvToGinMode(env))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize timezone: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// NewRateProvider wires the upstream client and the embedded catalog into
// a provider configured from cfg.
func NewRateProvider(cfg *sharedConfig.CurrencyConfig, log logger.Interface, opts ...appcurrency.Option) *appcurrency.RateProvider {
	client := exchangerate.NewClient(cfg.APIURL, cfg.APIKey, log.Named("exchangerate"))

	return appcurrency.NewRateProvider(
		client,
		currency.DefaultCatalog(),
		appcurrency.Config{
			CacheTTL:     cfg.CacheTTL,
			FetchTimeout: cfg.Timeout,
		},
		log.Named("currency"),
		opts...,
	)
}

// NewRedisClient connects to redis when a host is configured. It returns a
// nil client when redis is disabled.
func NewRedisClient(ctx context.Context, cfg *sharedConfig.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}

	return client, nil
}

// MapEnvToGinMode maps a deployment environment name to a gin mode. An
// empty environment keeps the configured mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "":
		return ""
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
