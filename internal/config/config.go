package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Model    ModelConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver string

	// sqlite
	SQLitePath string

	// postgres
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
}

type ModelConfig struct {
	// Dir holds the persisted vectorizer and classifier artifacts.
	Dir string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errUnknownDriver      = errors.New("unknown DB_DRIVER")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Model = ModelConfig{
		Dir: opt("MODEL_DIR", "models"),
	}

	cfg.Database = DatabaseConfig{
		Driver:     strings.ToLower(opt("DB_DRIVER", DriverSQLite)),
		SQLitePath: opt("SQLITE_PATH", "career_guidance.db"),
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", ""),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", ""),
	}

	if v := strings.TrimSpace(os.Getenv("DB_CONNECT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_CONNECT_TIMEOUT: %w", err)
		}
		cfg.Database.ConnectTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("DB_POOL_MAX_CONNS")); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_POOL_MAX_CONNS: %w", err)
		}
		cfg.Database.PoolMaxConns = int32(n)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("%w: %s", errUnknownDriver, cfg.Database.Driver)
	}

	return cfg, nil
}
