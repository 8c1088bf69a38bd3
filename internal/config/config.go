// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfidenceThreshold is applied to field mappings that do not set
// their own.
const DefaultConfidenceThreshold = 70

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*CrawlerConfig, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. Environment variables
// referenced as ${VAR} are expanded before parsing.
func LoadFromBytes(data []byte) (*CrawlerConfig, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var config CrawlerConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*CrawlerConfig, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// SaveToFile saves configuration to a YAML file, creating the directory if
// needed.
func SaveToFile(config *CrawlerConfig, filename string) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}

	return nil
}

// applyDefaults fills unset fields with working values.
func applyDefaults(config *CrawlerConfig) {
	if config.Version == "" {
		config.Version = "1.0"
	}

	if config.Target.ContentType == "" {
		config.Target.ContentType = "movies"
	}
	if config.Target.MaxPages == 0 {
		config.Target.MaxPages = 100
	}
	if config.Target.MaxDepth == 0 {
		config.Target.MaxDepth = 5
	}

	if config.Request.Timeout == 0 {
		config.Request.Timeout = 30 * time.Second
	}
	if config.Request.RateLimit == 0 {
		config.Request.RateLimit = 1.0
	}
	if config.Request.Burst == 0 {
		config.Request.Burst = 1
	}

	if config.Fields == nil {
		config.Fields = DefaultFieldMappings()
	}

	if config.Output.Format == "" {
		config.Output.Format = "json"
	}

	if config.Monitoring.Enabled && config.Monitoring.Address == "" {
		config.Monitoring.Address = ":9090"
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// DefaultFieldMappings returns the shipped movie field mappings.
func DefaultFieldMappings() FieldMappings {
	return FieldMappings{
		"movies": {
			"title": {
				Labels: []string{"title", "movie name", "name"},
			},
			"year": {
				Labels: []string{"year", "release year", "released", "date"},
			},
			"director": {
				Labels: []string{"director", "directed by", "direct"},
			},
			"cast": {
				Labels: []string{"cast", "starring", "actors", "stars"},
			},
			"genre": {
				Labels: []string{"genre", "category", "type"},
			},
			"synopsis": {
				Labels: []string{"synopsis", "plot", "summary", "description", "story"},
			},
		},
	}
}

// MappingsFor returns the field mappings for a content type, with every
// threshold resolved to a concrete value.
func (f FieldMappings) MappingsFor(contentType string) map[string]FieldMapping {
	mappings, ok := f[contentType]
	if !ok {
		return nil
	}
	resolved := make(map[string]FieldMapping, len(mappings))
	for field, m := range mappings {
		if m.ConfidenceThreshold == 0 {
			m.ConfidenceThreshold = DefaultConfidenceThreshold
		}
		resolved[field] = m
	}
	return resolved
}

// GenerateTemplate produces a ready-to-edit configuration for a movie
// catalogue site.
func GenerateTemplate() CrawlerConfig {
	config := CrawlerConfig{
		Name:        "movie-catalogue",
		Version:     "1.0",
		Description: "Crawl a movie catalogue site and extract structured records",
		Target: TargetConfig{
			StartURL:    "https://example.com/movies/",
			MaxPages:    100,
			MaxDepth:    5,
			ContentType: "movies",
		},
		Request: RequestConfig{
			Timeout:   30 * time.Second,
			RateLimit: 1.0,
			Burst:     1,
		},
		Output: OutputConfig{
			Format: "json",
			File:   "movies.json",
		},
		LogLevel: "info",
	}
	config.Fields = DefaultFieldMappings()
	return config
}
