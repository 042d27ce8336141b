// Package config loads the application configuration from the environment.
//
// Variables use the CATALOG_ prefix and a double underscore for nesting,
// e.g. CATALOG_DATABASE__HOST maps to database.host. A `.env` file in the
// working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "CATALOG_"

	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverPQ       = "pq"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Primary    Primary          `koanf:"primary" validate:"required"`
	Database   DatabaseConfig   `koanf:"database" validate:"required"`
	Server     ServerConfig     `koanf:"server" validate:"required"`
	Repository RepositoryConfig `koanf:"repository"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development production"`
}

// DatabaseConfig holds the store connection. Path is only used by the
// sqlite driver; the network fields are only used by the others.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=postgres pq sqlite"`
	Host            string `koanf:"host" validate:"required_unless=Driver sqlite"`
	Port            int    `koanf:"port" validate:"required_unless=Driver sqlite"`
	User            string `koanf:"user" validate:"required_unless=Driver sqlite"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_unless=Driver sqlite"`
	SSLMode         string `koanf:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Path            string `koanf:"path" validate:"required_if=Driver sqlite"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"gte=0"`
}

type ServerConfig struct {
	Port string `koanf:"port" validate:"required"`
}

type RepositoryConfig struct {
	// StrictReferences rejects products pointing at a missing category
	// before anything is written.
	StrictReferences bool `koanf:"strict_references"`
}

// Default returns the configuration used for every key the environment
// leaves unset. It matches a stock local PostgreSQL.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: EnvLocal},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "ProductDb",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Server: ServerConfig{Port: "8080"},
	}
}

// Load reads CATALOG_* variables on top of Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// IsLocal reports whether the process runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == EnvLocal
}
