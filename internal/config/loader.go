package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that steer loading itself.
const (
	envPrefix      = "CRGG_"
	envConfigFile  = "CRGG_CONFIG"
	envDotenvFile  = "CRGG_ENV_FILE"
	envLegacyKey   = "GOOGLE_MAPS_API_KEY"
	defaultEnvFile = ".env"
)

// Load builds a Config by layering defaults, optional dotenv, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. dotenv file (CRGG_ENV_FILE or ./.env when present); it only seeds unset env vars
//  3. file (YAML) if CRGG_CONFIG is set
//  4. env (prefix CRGG_)
//
// When places_api_key is still empty afterwards, GOOGLE_MAPS_API_KEY is used.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, loadFailed(path, err)
		}
	}

	// Map env keys like CRGG_AUDIT_TIMEOUT_MS -> audit_timeout_ms (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, loadFailed("env", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, loadFailed("unmarshal", err)
	}

	if cfg.PlacesAPIKey == "" {
		cfg.PlacesAPIKey = os.Getenv(envLegacyKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv seeds the process environment from a dotenv file. An explicitly
// configured file must exist; the implicit ./.env is optional.
func loadDotenv() error {
	path, explicit := os.LookupEnv(envDotenvFile)
	if !explicit || path == "" {
		path = defaultEnvFile
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return loadFailed(path, err)
	}
	return nil
}

// Validate checks invariants the pipeline relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case c.Strategy != StrategySearch && c.Strategy != StrategyDirectory:
		return invalid("strategy must be %q or %q, got %q", StrategySearch, StrategyDirectory, c.Strategy)
	case c.Strategy == StrategySearch && strings.TrimSpace(c.SearchURL) == "":
		return invalid("search_url must not be empty")
	case c.SearchDelayMS <= 0:
		return invalid("search_delay_ms must be positive")
	case c.SearchTimeoutMS <= 0:
		return invalid("search_timeout_ms must be positive")
	case c.SearchPageSize <= 0:
		return invalid("search_page_size must be positive")
	case c.AuditTimeoutMS <= 0:
		return invalid("audit_timeout_ms must be positive")
	case c.AuditConcurrency <= 0:
		return invalid("audit_concurrency must be positive")
	case strings.TrimSpace(c.CTAKeyword) == "":
		return invalid("cta_keyword must not be empty")
	case c.ReviewDivisor <= 0:
		return invalid("review_divisor must be positive")
	case c.RevenuePerPoint < 0:
		return invalid("revenue_per_point must not be negative")
	case c.TargetReviewCount < 0:
		return invalid("target_review_count must not be negative")
	case c.ReportHistorySize <= 0:
		return invalid("report_history_size must be positive")
	}
	return nil
}
