// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"snowlens/internal/domain"
	"snowlens/internal/warehouse"
)

// Config holds the configuration for the HTTP API and the warehouse session.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")

	// Ranking defaults, overridable per request.
	WindowDays      int
	TopNPerResource int

	// Completion model handed to the optimization pipeline.
	CompletionModel string

	// Rate limiting for the HTTP surface.
	RateLimitRPS   float64 // sustained requests per second (default 10)
	RateLimitBurst int     // burst capacity (default 20)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Connection holds the resolved warehouse connection parameters.
	Connection warehouse.ConnectionParams

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables. Connection
// parameters come from SNOWFLAKE_* variables; when SNOWLENS_PROFILE is set,
// that profile from the profiles file seeds the connection first and the
// environment overrides field by field.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:      envOr("LISTEN_ADDR", ":8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		WindowDays:      domain.DefaultWindowDays,
		TopNPerResource: domain.DefaultTopNPerResource,
		CompletionModel: envOr("COMPLETION_MODEL", domain.DefaultCompletionModel),
		RateLimitRPS:    10,
		RateLimitBurst:  20,
	}

	if v := os.Getenv("RANK_WINDOW_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid RANK_WINDOW_DAYS %q, using default %d", v, domain.DefaultWindowDays))
		} else {
			cfg.WindowDays = n
		}
	}
	if v := os.Getenv("RANK_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid RANK_TOP_N %q, using default %d", v, domain.DefaultTopNPerResource))
		} else {
			cfg.TopNPerResource = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid RATE_LIMIT_RPS %q, using default", v))
		} else {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid RATE_LIMIT_BURST %q, using default", v))
		} else {
			cfg.RateLimitBurst = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if name := os.Getenv("SNOWLENS_PROFILE"); name != "" {
		profiles, err := LoadProfiles(DefaultProfilesPath())
		if err != nil {
			return nil, fmt.Errorf("SNOWLENS_PROFILE=%s: %w", name, err)
		}
		p, ok := profiles.Profile(name)
		if !ok {
			return nil, fmt.Errorf("profile %q not found in %s", name, DefaultProfilesPath())
		}
		cfg.Connection = p.ConnectionParams()
		if cfg.CompletionModel == domain.DefaultCompletionModel && p.Model != "" {
			cfg.CompletionModel = p.Model
		}
	}

	applyEnvOverride(&cfg.Connection.Account, "SNOWFLAKE_ACCOUNT")
	applyEnvOverride(&cfg.Connection.User, "SNOWFLAKE_USER")
	applyEnvOverride(&cfg.Connection.Password, "SNOWFLAKE_PASSWORD")
	applyEnvOverride(&cfg.Connection.Database, "SNOWFLAKE_DATABASE")
	applyEnvOverride(&cfg.Connection.Schema, "SNOWFLAKE_SCHEMA")
	applyEnvOverride(&cfg.Connection.Warehouse, "SNOWFLAKE_WAREHOUSE")
	applyEnvOverride(&cfg.Connection.Role, "SNOWFLAKE_ROLE")

	if err := cfg.Connection.Validate(); err != nil {
		return nil, fmt.Errorf("warehouse connection: %w", err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func applyEnvOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
