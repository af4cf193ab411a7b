// Package config loads runtime settings from .env files and OTTOCOST_*
// environment variables. Command-line flags are applied on top by main.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/inventory"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OTTOCOST_"

// Config holds the application configuration
type Config struct {
	// Storage selects and configures the supply catalog backend.
	Storage inventory.Config

	// RecipesFile is a YAML recipe book. Empty means the built-in recipes.
	RecipesFile string

	// SuppliesFile is a YAML catalog upserted into the backend at startup.
	SuppliesFile string

	LogLevel logger.Level

	// Workers bounds concurrent costing in reports. 0 means GOMAXPROCS.
	Workers int
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Storage:  inventory.DefaultConfig(),
		LogLevel: logger.LevelNormal,
	}
}

// Load reads the given .env files (".env" when none are given; missing files
// are ignored), then overrides defaults with OTTOCOST_* variables. Variables
// already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Default()

	if v := getEnv("STORAGE"); v != "" {
		cfg.Storage.Type = strings.ToLower(v)
	}
	if v := getEnv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := getEnv("POSTGRES_URL"); v != "" {
		cfg.Storage.PostgreSQL.URL = v
	}
	if v := getEnv("POSTGRES_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sPOSTGRES_MAX_CONNS: %w", EnvPrefix, err)
		}
		cfg.Storage.PostgreSQL.MaxConns = n
	}
	if v := getEnv("RECIPES_FILE"); v != "" {
		cfg.RecipesFile = v
	}
	if v := getEnv("SUPPLIES_FILE"); v != "" {
		cfg.SuppliesFile = v
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = logger.ParseLevel(v)
	}
	if v := getEnv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case inventory.TypeMemory, inventory.TypeSQLite:
	case inventory.TypePostgreSQL:
		if c.Storage.PostgreSQL.URL == "" {
			return fmt.Errorf("postgresql storage needs %sPOSTGRES_URL or -postgres-url", EnvPrefix)
		}
	default:
		return fmt.Errorf("%w: %q (valid: memory, sqlite, postgresql)", domain.ErrUnsupportedStorage, c.Storage.Type)
	}
	if c.Storage.PostgreSQL.MaxConns < 0 {
		return fmt.Errorf("postgres max conns must not be negative, got %d", c.Storage.PostgreSQL.MaxConns)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}
