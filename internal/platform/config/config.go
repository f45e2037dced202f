package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort                 = "8080"
	defaultRateLimit            = "120-M"
	defaultPosthogEndpoint      = "https://eu.i.posthog.com"
	defaultMigrationsPath       = "file://migrations"
	defaultDashboardConcurrency = 4
	defaultStoreTimeout         = 10 * time.Second
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted rate, e.g. "120-M"

	// Usage analytics; an empty key disables PostHog
	PosthogAPIKey   string
	PosthogEndpoint string

	// Statistics engine
	PresentationRulesFile string
	DashboardConcurrency  int
	StoreTimeout          time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", defaultPort)
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT", defaultRateLimit)
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", defaultPosthogEndpoint)
	viper.SetDefault("PRESENTATION_RULES_FILE", "")
	viper.SetDefault("DASHBOARD_CONCURRENCY", defaultDashboardConcurrency)
	viper.SetDefault("STORE_TIMEOUT", defaultStoreTimeout.String())

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.CORSAllowedOrigins = splitCSV(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.PresentationRulesFile = viper.GetString("PRESENTATION_RULES_FILE")

	cfg.DashboardConcurrency = viper.GetInt("DASHBOARD_CONCURRENCY")
	if cfg.DashboardConcurrency <= 0 {
		log.Printf("Warning: Invalid DASHBOARD_CONCURRENCY. Defaulting to %d.\n", defaultDashboardConcurrency)
		cfg.DashboardConcurrency = defaultDashboardConcurrency
	}

	// Load store timeout (e.g., "10s", "1m")
	storeTimeoutStr := viper.GetString("STORE_TIMEOUT")
	storeTimeout, err := time.ParseDuration(storeTimeoutStr)
	if err != nil || storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
		log.Printf("Warning: Invalid value for STORE_TIMEOUT ('%s'). Defaulting to %s.\n", storeTimeoutStr, storeTimeout.String())
	}
	cfg.StoreTimeout = storeTimeout

	return cfg, nil
}

func splitCSV(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
