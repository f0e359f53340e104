// Package config loads found3r-engine configuration from config.yaml with
// environment variable overrides. Secrets must only come from environment
// variables (yaml:"-" fields).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for found3r-engine.
// Environment variables always override YAML values for fields that support both.
type Config struct {
	// Server configuration
	BindADDR string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration for ephemeral sweep status (optional).
	Redis RedisConfig `yaml:"redis"`

	// LLM gateway configuration
	LLM LLMConfig `yaml:"llm"`

	// Landing page hosting configuration (optional).
	Pages PagesConfig `yaml:"pages"`

	// Agent tuning knobs
	Agents AgentConfig `yaml:"agents"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// WebhookSecret authenticates identity-provider lifecycle webhooks.
	WebhookSecret string `yaml:"-" env:"WEBHOOK_SECRET"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"found3r"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"found3r_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig holds Redis connection settings for the sweep-status store.
// If Addr is empty, sweep status falls back to an in-process TTL map.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:""`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// LLMConfig holds LLM gateway settings.
type LLMConfig struct {
	// Provider selects the gateway implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible endpoints.
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`

	Model  string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o"`
	APIKey string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	// Temperature used for agent completions.
	Temperature float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.7"`
}

// PagesConfig holds landing page hosting settings. If Endpoint is empty,
// LaunchTest deploy requests are skipped.
type PagesConfig struct {
	Endpoint      string `yaml:"endpoint" env:"PAGES_ENDPOINT" env-default:""`
	Token         string `yaml:"-" env:"PAGES_TOKEN"` // Secret - not in YAML
	PublicBaseURL string `yaml:"public_base_url" env:"PAGES_PUBLIC_BASE_URL" env-default:""`
}

// AgentConfig holds tuning knobs for agent runs.
type AgentConfig struct {
	// PainPointCap bounds the number of pain points SignalScanner keeps.
	PainPointCap int `yaml:"pain_point_cap" env:"AGENT_PAIN_POINT_CAP" env-default:"10"`

	// ChatHistoryLimit bounds how many prior chat messages Copilot loads.
	ChatHistoryLimit int `yaml:"chat_history_limit" env:"AGENT_CHAT_HISTORY_LIMIT" env-default:"20"`

	// SweepStatusTTLSeconds is how long sweep progress remains pollable
	// after the last update.
	SweepStatusTTLSeconds int `yaml:"sweep_status_ttl_seconds" env:"AGENT_SWEEP_STATUS_TTL_SECONDS" env-default:"300"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// If config.yaml does not exist, configuration comes from env vars alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if cfg.Auth.EnableVerification && len(cfg.Auth.JWKSEndpoints) == 0 {
		return nil, fmt.Errorf("auth verification enabled but no JWKS endpoints configured")
	}

	return cfg, nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
