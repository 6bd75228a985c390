package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SchemaModeReset   = "reset"
	SchemaModeMigrate = "migrate"
)

var DefaultEnvConfig *EnvConfig

type EnvConfig struct {
	// server config
	PORT string
	// database config
	DATABASE_URL         string
	DB_MAX_OPEN_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration
	SCHEMA_MODE          string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// search mirror config
	ELASTICSEARCH_URL   string
	ELASTICSEARCH_INDEX string
	// export config
	REPORT_CONFIG_PATH string
}

// LoadEnvConfig reads .env (when present) and the process environment into
// DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := &EnvConfig{
		PORT:                 getEnvString("PORT", "3000"),
		DATABASE_URL:         getEnvString("DATABASE_URL", "postgres://localhost/acme_hr_directory?sslmode=disable"),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 1),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 0),
		SCHEMA_MODE:          getEnvString("SCHEMA_MODE", SchemaModeReset),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:            getEnvString("LOG_LEVEL", "info"),
		ELASTICSEARCH_URL:    getEnvString("ELASTICSEARCH_URL", ""),
		ELASTICSEARCH_INDEX:  getEnvString("ELASTICSEARCH_INDEX", "employees"),
		REPORT_CONFIG_PATH:   getEnvString("REPORT_CONFIG_PATH", ""),
	}

	switch cfg.SCHEMA_MODE {
	case SchemaModeReset, SchemaModeMigrate:
	default:
		return fmt.Errorf("unknown SCHEMA_MODE %q", cfg.SCHEMA_MODE)
	}

	DefaultEnvConfig = cfg
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
