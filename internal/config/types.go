// internal/config/types.go

// Package config provides configuration types for MovieScrapexter. It
// defines the settings for a crawl run: the target site, request behavior,
// classification rule tuning, fuzzy field mappings, and output sinks.
package config

import (
	"time"
)

// CrawlerConfig is the main configuration structure for a crawl run.
type CrawlerConfig struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Version of the configuration format
	Version string `yaml:"version" json:"version"`

	// Description provides human-readable information about this config
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Target defines the site to crawl
	Target TargetConfig `yaml:"target" json:"target"`

	// Request tunes HTTP behavior
	Request RequestConfig `yaml:"request" json:"request"`

	// Classifier tunes page-classification rules
	Classifier ClassifierConfig `yaml:"classifier,omitempty" json:"classifier,omitempty"`

	// Fields maps content types to fuzzy label patterns
	Fields FieldMappings `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Output configures result sinks
	Output OutputConfig `yaml:"output" json:"output"`

	// Monitoring configures the metrics endpoint
	Monitoring MonitoringConfig `yaml:"monitoring,omitempty" json:"monitoring,omitempty"`

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// TargetConfig defines the crawl frontier.
type TargetConfig struct {
	// StartURL is the seed page, typically the first catalogue page
	StartURL string `yaml:"start_url" json:"start_url"`

	// AllowedDomains restricts the crawl; empty means the start URL's host
	AllowedDomains []string `yaml:"allowed_domains,omitempty" json:"allowed_domains,omitempty"`

	// MaxPages bounds the total number of fetched pages
	MaxPages int `yaml:"max_pages,omitempty" json:"max_pages,omitempty"`

	// MaxDepth bounds link-following depth from the seed
	MaxDepth int `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`

	// ContentType selects the field mapping set (default "movies")
	ContentType string `yaml:"content_type,omitempty" json:"content_type,omitempty"`
}

// RequestConfig tunes how pages are fetched.
type RequestConfig struct {
	// UserAgents rotates across requests; empty uses a built-in list
	UserAgents []string `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`

	// Timeout bounds a single fetch
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// RateLimit is the sustained requests-per-second budget
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`

	// Burst is the rate limiter burst size
	Burst int `yaml:"burst,omitempty" json:"burst,omitempty"`

	// UseBrowser renders pages in a headless browser instead of plain HTTP
	UseBrowser bool `yaml:"use_browser,omitempty" json:"use_browser,omitempty"`

	// WaitSelector is an element the browser waits for before snapshotting
	WaitSelector string `yaml:"wait_selector,omitempty" json:"wait_selector,omitempty"`

	// Headers are sent with every request
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// ClassifierConfig overrides the built-in classification thresholds and
// rule weights. Unset entries keep their defaults.
type ClassifierConfig struct {
	// Thresholds are named numeric knobs (link_heavy_min_links,
	// score_threshold, detail_min_iframes, ...)
	Thresholds map[string]int `yaml:"thresholds,omitempty" json:"thresholds,omitempty"`

	// RuleWeights overrides the score weight of named rules
	RuleWeights map[string]int `yaml:"rule_weights,omitempty" json:"rule_weights,omitempty"`
}

// FieldMapping defines the fuzzy label set for one output field.
type FieldMapping struct {
	// Labels are the strings matched against page text
	Labels []string `yaml:"labels" json:"labels"`

	// ConfidenceThreshold is the minimum accepted fuzzy score (default 70)
	ConfidenceThreshold int `yaml:"confidence_threshold,omitempty" json:"confidence_threshold,omitempty"`
}

// FieldMappings maps content type -> field name -> mapping.
type FieldMappings map[string]map[string]FieldMapping

// OutputConfig configures where extracted records go.
type OutputConfig struct {
	// Format selects the writer: json, csv, excel, sqlite, mysql,
	// postgresql, mongodb
	Format string `yaml:"format" json:"format"`

	// File is the path for file-based writers
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Database holds connection settings for database writers
	Database *DatabaseConfig `yaml:"database,omitempty" json:"database,omitempty"`
}

// DatabaseConfig holds database writer settings.
type DatabaseConfig struct {
	// DSN is the driver-specific connection string
	DSN string `yaml:"dsn" json:"dsn"`

	// Table is the table (SQL) or collection (MongoDB) name
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Database is the logical database name, used by MongoDB
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
}

// MonitoringConfig configures the metrics endpoint.
type MonitoringConfig struct {
	// Enabled turns the HTTP metrics server on
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Address is the listen address, e.g. ":9090"
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
}

// ValidationError describes one problem found while validating a config.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
