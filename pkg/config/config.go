// Package config loads bosun-engine configuration from config.yaml with
// environment variable overrides. Environment variables always win over
// YAML; secrets (PGPASSWORD) come from the environment only.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// Config holds all configuration for bosun-engine.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8084"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // set at load time, not from config

	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"bosun"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"bosun_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// SearchConfig holds the pipeline tuning knobs. These are the documented
// precision/recall levers; defaults match the named constants in the
// pipeline packages.
type SearchConfig struct {
	// DomainConfidenceThreshold: below it, domain detection is abandoned
	// and the query runs in explore mode.
	DomainConfidenceThreshold float64 `yaml:"domain_confidence_threshold" env:"DOMAIN_CONFIDENCE_THRESHOLD" env-default:"0.6"`

	// MinResultsPerTier controls tier short-circuiting: once a tier has
	// this many rows, later waves and tiers are skipped.
	MinResultsPerTier int `yaml:"min_results_per_tier" env:"MIN_RESULTS_PER_TIER" env-default:"5"`

	// PerTableQueryTimeoutMS bounds each per-table query.
	PerTableQueryTimeoutMS int `yaml:"per_table_query_timeout_ms" env:"PER_TABLE_QUERY_TIMEOUT_MS" env-default:"2000"`

	// PerTableLimit caps rows per table statement.
	PerTableLimit int `yaml:"per_table_limit" env:"PER_TABLE_LIMIT" env-default:"20"`

	// ResultLimit caps rows per response.
	ResultLimit int `yaml:"result_limit" env:"RESULT_LIMIT" env-default:"25"`

	// TypePrecedenceStr optionally overrides extractor tie-break weights,
	// as comma-separated TYPE=weight pairs. Overrides are merged onto the
	// built-in defaults per key, so a partial override adjusts only the
	// types it names.
	TypePrecedenceStr string `yaml:"type_precedence" env:"TYPE_PRECEDENCE" env-default:""`

	// TypePrecedence is parsed from TypePrecedenceStr at load time.
	TypePrecedence map[models.EntityType]int `yaml:"-"`
}

// Load reads configuration from config.yaml with environment overrides.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}
	return cfg, nil
}

func (c *Config) parseComplexFields() error {
	overrides, err := ParseTypePrecedence(c.Search.TypePrecedenceStr)
	if err != nil {
		return err
	}
	c.Search.TypePrecedence = overrides
	return nil
}

// ParseTypePrecedence parses "TYPE=weight,TYPE=weight" into an override
// map. The map is NOT the full precedence table: consumers must merge it
// onto the built-in defaults (gazetteer.MergePrecedence) so a partial
// override can never erase the protected high-weight types.
func ParseTypePrecedence(value string) (map[models.EntityType]int, error) {
	overrides := make(map[models.EntityType]int)
	if strings.TrimSpace(value) == "" {
		return overrides, nil
	}

	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed type precedence entry %q", pair)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("malformed type precedence entry %q", pair)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("malformed type precedence weight in %q: %w", pair, err)
		}
		overrides[models.EntityType(name)] = weight
	}
	return overrides, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
