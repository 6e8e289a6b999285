package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv       = "dev"
	defaultPort         = "3001"
	defaultDBDriver     = "postgres"
	defaultDBHost       = "localhost"
	defaultDBPort       = "5432"
	defaultDBUser       = "postgres"
	defaultDBName       = "immobilier_db"
	defaultDBSSLMode    = "disable"
	defaultSQLitePath   = "estatehub.db"
	defaultMaxOpenConns = "10"
	defaultCORSOrigin   = "http://localhost:8081"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultCacheDriver  = "none"
	defaultRedisAddr    = "localhost:6379"
	defaultRedisDB      = "0"
	defaultCacheTTL     = "5m"
	defaultAPIBaseURL   = "http://localhost:3001/api"
	defaultUserID       = "user123"
)

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
}

type CacheConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LogConfig struct {
	Level  slog.Level
	Format string
}

// ClientConfig is read by cmd/browse.
type ClientConfig struct {
	BaseURL string
	UserID  string
}

type AppConfig struct {
	AppEnv     string
	Port       int
	CORSOrigin string
	Database   DatabaseConfig
	Cache      CacheConfig
	Log        LogConfig
	Client     ClientConfig
}

// Load reads the optional .env file and then the process environment.
// Every value has a default so an empty environment yields a usable dev config.
func Load(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &AppConfig{}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", defaultAppEnv)))
	cfg.CORSOrigin = strings.TrimSpace(getEnv("CORS_ORIGIN", defaultCORSOrigin))

	var err error
	if cfg.Port, err = parseIntEnv("PORT", defaultPort); err != nil {
		return nil, err
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", defaultDBDriver)))
	cfg.Database.Host = strings.TrimSpace(getEnv("DB_HOST", defaultDBHost))
	if cfg.Database.Port, err = parseIntEnv("DB_PORT", defaultDBPort); err != nil {
		return nil, err
	}
	cfg.Database.User = getEnv("DB_USER", defaultDBUser)
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = getEnv("DB_NAME", defaultDBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", defaultDBSSLMode)
	cfg.Database.SQLitePath = getEnv("SQLITE_PATH", defaultSQLitePath)
	if cfg.Database.MaxOpenConns, err = parseIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpenConns); err != nil {
		return nil, err
	}

	cfg.Cache.Driver = strings.ToLower(strings.TrimSpace(getEnv("CACHE_DRIVER", defaultCacheDriver)))
	cfg.Cache.RedisAddr = getEnv("REDIS_ADDR", defaultRedisAddr)
	cfg.Cache.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.Cache.RedisDB, err = parseIntEnv("REDIS_DB", defaultRedisDB); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = parseDurationEnv("CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}

	if cfg.Log.Level, err = parseLevelEnv("LOG_LEVEL", defaultLogLevel); err != nil {
		return nil, err
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))

	cfg.Client.BaseURL = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/")
	cfg.Client.UserID = getEnv("USER_ID", defaultUserID)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func validateConfig(cfg *AppConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535")
	}
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			return fmt.Errorf("DB_HOST must not be empty")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			return fmt.Errorf("DB_PORT must be in 1..65535")
		}
		if cfg.Database.Name == "" {
			return fmt.Errorf("DB_NAME must not be empty")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: postgres, sqlite")
	}
	if cfg.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	switch cfg.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("CACHE_DRIVER must be one of: none, memory, redis")
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("LOG_FORMAT must be one of: text, json")
	}
	if cfg.CORSOrigin == "" {
		return fmt.Errorf("CORS_ORIGIN must not be empty")
	}
	if cfg.IsProduction() && cfg.CORSOrigin == "*" {
		return fmt.Errorf("in prod/release CORS_ORIGIN must not be a wildcard")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseLevelEnv(name, fallback string) (slog.Level, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return level, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
