package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// External APIs
	AlphaVantage AlphaVantageConfig
	Yahoo        YahooConfig
	Wikipedia    WikipediaConfig
	Gemini       GeminiConfig

	// Optional infrastructure
	Database DatabaseConfig
	Redis    RedisConfig

	// History audit log
	HistoryEnabled bool

	// Scheduler
	SchedulerEnabled bool
	CacheWarmSpec    string // cron spec for the cache-warm job

	// Logging
	LogLevel  string
	LogFormat string
}

// AlphaVantageConfig holds Alpha Vantage API configuration.
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration // symbol search timeout

	// Free tier allows 5 requests per minute.
	RateLimit  int
	RateWindow time.Duration
}

// YahooConfig holds Yahoo Finance configuration.
type YahooConfig struct {
	ChartBaseURL string
	QuoteBaseURL string
}

// WikipediaConfig holds Wikipedia API configuration.
type WikipediaConfig struct {
	BaseURL string
}

// GeminiConfig holds Gemini API configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables.
// This function is the only caller of os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		AlphaVantage: AlphaVantageConfig{
			APIKey:     getEnv("ALPHA_VANTAGE_API_KEY", ""),
			BaseURL:    getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
			Timeout:    getEnvAsDuration("ALPHA_VANTAGE_TIMEOUT", "3s"),
			RateLimit:  getEnvAsInt("ALPHA_VANTAGE_RATE_LIMIT", 5),
			RateWindow: getEnvAsDuration("ALPHA_VANTAGE_RATE_WINDOW", "1m"),
		},

		Yahoo: YahooConfig{
			ChartBaseURL: getEnv("YAHOO_CHART_BASE_URL", "https://query1.finance.yahoo.com"),
			QuoteBaseURL: getEnv("YAHOO_QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		Wikipedia: WikipediaConfig{
			BaseURL: getEnv("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org"),
		},

		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		HistoryEnabled: getEnvAsBool("HISTORY_ENABLED", false),

		SchedulerEnabled: getEnvAsBool("SCHEDULER_ENABLED", false),
		CacheWarmSpec:    getEnv("CACHE_WARM_SPEC", "0 6 * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are consistent.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// History needs a database
	if c.HistoryEnabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when HISTORY_ENABLED=true")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
