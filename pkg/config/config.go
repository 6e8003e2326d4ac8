package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Steam Community Market
	Steam SteamConfig

	// Collector
	Collector CollectorConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SteamConfig holds Steam Community Market access configuration.
// Steam은 인증 없는 공개 엔드포인트지만 요청 속도에 매우 민감함
type SteamConfig struct {
	BaseURL string
	// Currency is Steam's numeric currency code (1 = USD).
	Currency int
	// AppID is the game whose market is pulled (730 = CS:GO).
	AppID int
	// RequestsPerMinute caps outbound scraping requests.
	RequestsPerMinute int
	// CacheTTL bounds how long a pulled page is reused.
	CacheTTL time.Duration
}

// CollectorConfig holds re-pull scheduling configuration.
type CollectorConfig struct {
	// RepullCron is the cron expression for the stale-item re-pull job.
	RepullCron string
	// StaleAfter marks items for re-pull once their last pull is older.
	StaleAfter time.Duration
	// Workers bounds concurrent item pulls.
	Workers int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

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
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Steam: SteamConfig{
			BaseURL:           getEnv("STEAM_BASE_URL", "https://steamcommunity.com/market"),
			Currency:          getEnvAsInt("STEAM_CURRENCY", 1),
			AppID:             getEnvAsInt("STEAM_APP_ID", 730),
			RequestsPerMinute: getEnvAsInt("STEAM_REQUESTS_PER_MINUTE", 20),
			CacheTTL:          getEnvAsDuration("STEAM_CACHE_TTL", "10m"),
		},

		Collector: CollectorConfig{
			RepullCron: getEnv("COLLECTOR_REPULL_CRON", "0 */6 * * *"),
			StaleAfter: getEnvAsDuration("COLLECTOR_STALE_AFTER", "24h"),
			Workers:    getEnvAsInt("COLLECTOR_WORKERS", 4),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Steam.RequestsPerMinute < 1 {
		return fmt.Errorf("STEAM_REQUESTS_PER_MINUTE must be ≥ 1")
	}

	if c.Collector.Workers < 1 {
		return fmt.Errorf("COLLECTOR_WORKERS must be ≥ 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
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
