// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Loading layers defaults, an optional dotenv file, an optional YAML file and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"time"
)

// Acquisition strategies.
const (
	StrategySearch    = "search"
	StrategyDirectory = "directory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Strategy selects how competitors are acquired: search or directory.
	Strategy string `koanf:"strategy"`

	// PlacesAPIKey is the business-directory credential. Empty means the
	// directory strategy yields no data.
	PlacesAPIKey string `koanf:"places_api_key"`

	// SearchType is the business category used in the search query, e.g. "dentist".
	SearchType string `koanf:"search_type"`

	// CompetitorLimit caps how many competitors are acquired per report.
	CompetitorLimit int `koanf:"competitor_limit"`

	// SearchURL is the search engine results endpoint.
	SearchURL string `koanf:"search_url"`

	// SearchResultSelector is the goquery selector for result anchors.
	SearchResultSelector string `koanf:"search_result_selector"`

	// SearchPageSize is the number of results requested per page.
	SearchPageSize int `koanf:"search_page_size"`

	// SearchDelayMS is the minimum spacing between search page fetches.
	SearchDelayMS int `koanf:"search_delay_ms"`

	// SearchTimeoutMS bounds a single search page fetch.
	SearchTimeoutMS int `koanf:"search_timeout_ms"`

	// UserAgent is sent on every outbound request.
	UserAgent string `koanf:"user_agent"`

	// AuditTimeoutMS bounds a single website audit fetch.
	AuditTimeoutMS int `koanf:"audit_timeout_ms"`

	// AuditMaxRedirects caps redirect hops during an audit.
	AuditMaxRedirects int `koanf:"audit_max_redirects"`

	// AuditConcurrency is the number of audit workers per report.
	AuditConcurrency int `koanf:"audit_concurrency"`

	// CTAKeyword is matched case-insensitively against link text.
	CTAKeyword string `koanf:"cta_keyword"`

	// RatingWeight, ReviewDivisor and RevenuePerPoint parameterize the dominance model.
	RatingWeight    float64 `koanf:"rating_weight"`
	ReviewDivisor   float64 `koanf:"review_divisor"`
	RevenuePerPoint float64 `koanf:"revenue_per_point"`

	// TargetRating and TargetReviewCount anchor the target's synthetic metrics.
	TargetRating      float64 `koanf:"target_rating"`
	TargetReviewCount int     `koanf:"target_review_count"`

	// InflightSize bounds the in-flight report guard.
	InflightSize int `koanf:"inflight_size"`

	// ReportHistorySize bounds the prospect board; the smallest losses are evicted first.
	ReportHistorySize int `koanf:"report_history_size"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		Strategy:             StrategySearch,
		SearchType:           "dentist",
		CompetitorLimit:      5,
		SearchURL:            "https://www.google.com/search",
		SearchResultSelector: "a[href]",
		SearchPageSize:       10,
		SearchDelayMS:        2000,
		SearchTimeoutMS:      10000,
		UserAgent:            "Mozilla/5.0 (compatible; crgg/1.0)",
		AuditTimeoutMS:       5000,
		AuditMaxRedirects:    10,
		AuditConcurrency:     4,
		CTAKeyword:           "appointment",
		RatingWeight:         10,
		ReviewDivisor:        50,
		RevenuePerPoint:      500,
		TargetRating:         3.8,
		TargetReviewCount:    45,
		InflightSize:         1024,
		ReportHistorySize:    1000,
	}
}

// SearchDelay returns SearchDelayMS as a duration.
func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.SearchDelayMS) * time.Millisecond
}

// SearchTimeout returns SearchTimeoutMS as a duration.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMS) * time.Millisecond
}

// AuditTimeout returns AuditTimeoutMS as a duration.
func (c *Config) AuditTimeout() time.Duration {
	return time.Duration(c.AuditTimeoutMS) * time.Millisecond
}
