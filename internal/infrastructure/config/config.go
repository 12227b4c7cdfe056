package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "github.com/tripdesk/tripdesk/internal/shared/config"
)

const envPrefix = "TRIPDESK"

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Currency  sharedConfig.CurrencyConfig  `mapstructure:"currency"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Timezone  string                       `mapstructure:"timezone"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (or configFile when set) and environment
// variables prefixed with TRIPDESK_. A missing config file is not an error;
// defaults and the environment are enough to run.
func Load(configFile, env string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	// Set environment variable prefix and replacer
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Widely used names for the upstream key, checked after TRIPDESK_CURRENCY_API_KEY
	if err := v.BindEnv("currency.api_key", envPrefix+"_CURRENCY_API_KEY", "EXCHANGE_RATE_API_KEY", "OPENEXCHANGERATES_APP_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects values the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Currency.CacheTTL <= 0 {
		return fmt.Errorf("currency.cache_ttl must be positive, got %s", c.Currency.CacheTTL)
	}
	if c.Currency.Timeout <= 0 {
		return fmt.Errorf("currency.timeout must be positive, got %s", c.Currency.Timeout)
	}
	if c.Currency.WarmupInterval < 0 {
		return fmt.Errorf("currency.warmup_interval must not be negative, got %s", c.Currency.WarmupInterval)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("ratelimit.limit and ratelimit.window must be positive when rate limiting is enabled")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults; an empty host disables rate limiting storage
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "tripdesk")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)

	// Currency defaults
	v.SetDefault("currency.api_key", "")
	v.SetDefault("currency.api_url", "https://openexchangerates.org/api")
	v.SetDefault("currency.timeout", 5*time.Second)
	v.SetDefault("currency.cache_ttl", 24*time.Hour)
	v.SetDefault("currency.warmup_interval", time.Duration(0))

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.limit", 120)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("timezone", "UTC")
}
