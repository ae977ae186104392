package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "KoloPay"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultCurrency        = "NGN"
	defaultShutdownDelay   = 10 * time.Second
	defaultProviderTimeout = 30 * time.Second
	defaultCreateRateLimit = 5
)

// Provider holds the wallet provider endpoint and credentials. The effective
// base URL is resolved exactly once, at load time.
type Provider struct {
	BaseURL    string
	SandboxURL string
	Sandbox    bool
	PublicKey  string
	SecretKey  string
	Timeout    time.Duration
}

// EffectiveBaseURL returns the sandbox URL when sandbox mode is on and one is
// configured, otherwise the live URL.
func (p Provider) EffectiveBaseURL() string {
	if p.Sandbox && p.SandboxURL != "" {
		return p.SandboxURL
	}
	return p.BaseURL
}

// Config captures application runtime configuration loaded from environment
// variables.
type Config struct {
	AppName            string
	AppEnv             string
	Port               string
	LogLevel           string
	DatabaseURL        string
	RedisURL           string
	ShutdownPeriod     time.Duration
	Provider           Provider
	RootSecret         string
	Currency           string
	SpendingTotalsMode string
	CreateRateLimit    int
	GeoIPEnabled       bool
}

// Load reads configuration values from the environment and populates a
// Config instance. Postgres and Redis are optional in development (memory
// fallbacks apply) and required everywhere else.
func Load() (Config, error) {
	cfg := Config{
		AppName:            getEnv("APP_NAME", defaultAppName),
		AppEnv:             getEnv("APP_ENV", defaultAppEnv),
		Port:               getEnv("PORT", defaultPort),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		ShutdownPeriod:     defaultShutdownDelay,
		RootSecret:         os.Getenv("ROOT_SECRET"),
		Currency:           getEnv("DEFAULT_CURRENCY", defaultCurrency),
		SpendingTotalsMode: getEnv("SPENDING_TOTALS_MODE", "compat"),
		CreateRateLimit:    defaultCreateRateLimit,
		GeoIPEnabled:       getEnv("GEOIP_ENABLED", "true") == "true",
		Provider: Provider{
			BaseURL:    os.Getenv("WALLETS_BASE_URL"),
			SandboxURL: os.Getenv("WALLETS_SANDBOX_URL"),
			Sandbox:    os.Getenv("WALLETS_SANDBOX") == "true",
			PublicKey:  os.Getenv("WALLETS_PUBLIC_KEY"),
			SecretKey:  os.Getenv("WALLETS_SECRET_KEY"),
			Timeout:    defaultProviderTimeout,
		},
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PROVIDER_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Provider.Timeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("CREATE_RATE_LIMIT_PER_MIN"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CREATE_RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.CreateRateLimit = limit
	}

	if cfg.Provider.BaseURL == "" {
		return Config{}, fmt.Errorf("WALLETS_BASE_URL must be set")
	}
	if cfg.Provider.PublicKey == "" {
		return Config{}, fmt.Errorf("WALLETS_PUBLIC_KEY must be set")
	}
	if cfg.Provider.SecretKey == "" {
		return Config{}, fmt.Errorf("WALLETS_SECRET_KEY must be set")
	}
	if cfg.RootSecret == "" {
		return Config{}, fmt.Errorf("ROOT_SECRET must be set")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development-like environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
