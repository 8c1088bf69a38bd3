// internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validOutputFormats is the closed set of writer names.
var validOutputFormats = map[string]bool{
	"json":       true,
	"csv":        true,
	"excel":      true,
	"sqlite":     true,
	"mysql":      true,
	"postgresql": true,
	"mongodb":    true,
}

// databaseFormats require a database section.
var databaseFormats = map[string]bool{
	"sqlite":     false, // sqlite uses Output.File as its path
	"mysql":      true,
	"postgresql": true,
	"mongodb":    true,
}

// Validate checks the configuration for problems that would make a crawl
// run fail or misbehave.
func (c *CrawlerConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if err := c.Target.validate(); err != nil {
		return fmt.Errorf("target: %v", err)
	}
	if err := c.Request.validate(); err != nil {
		return fmt.Errorf("request: %v", err)
	}
	if err := c.Output.validate(); err != nil {
		return fmt.Errorf("output: %v", err)
	}
	if err := c.Fields.validate(); err != nil {
		return fmt.Errorf("fields: %v", err)
	}

	if _, ok := c.Fields[c.Target.ContentType]; c.Target.ContentType != "" && !ok {
		return fmt.Errorf("target: content_type %q has no field mappings", c.Target.ContentType)
	}

	return nil
}

func (t *TargetConfig) validate() error {
	if t.StartURL == "" {
		return fmt.Errorf("start_url is required")
	}

	parsed, err := url.Parse(t.StartURL)
	if err != nil {
		return fmt.Errorf("start_url is not a valid URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("start_url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("start_url has no host")
	}

	if t.MaxPages < 0 {
		return fmt.Errorf("max_pages cannot be negative")
	}
	if t.MaxDepth < 0 {
		return fmt.Errorf("max_depth cannot be negative")
	}

	return nil
}

func (r *RequestConfig) validate() error {
	if r.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if r.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if r.Burst < 0 {
		return fmt.Errorf("burst cannot be negative")
	}
	return nil
}

func (o *OutputConfig) validate() error {
	format := strings.ToLower(o.Format)
	if !validOutputFormats[format] {
		return fmt.Errorf("unsupported format %q", o.Format)
	}

	switch format {
	case "json", "csv", "excel", "sqlite":
		if o.File == "" {
			return fmt.Errorf("format %q requires a file path", format)
		}
	}

	if databaseFormats[format] {
		if o.Database == nil || o.Database.DSN == "" {
			return fmt.Errorf("format %q requires a database DSN", format)
		}
	}
	if format == "mongodb" && o.Database.Database == "" {
		return fmt.Errorf("mongodb output requires a database name")
	}

	return nil
}

func (f FieldMappings) validate() error {
	for contentType, mappings := range f {
		if len(mappings) == 0 {
			return fmt.Errorf("content type %q has no fields", contentType)
		}
		for field, m := range mappings {
			if len(m.Labels) == 0 {
				return fmt.Errorf("field %s.%s has no labels", contentType, field)
			}
			if m.ConfidenceThreshold < 0 || m.ConfidenceThreshold > 100 {
				return fmt.Errorf("field %s.%s confidence_threshold must be 0-100", contentType, field)
			}
		}
	}
	return nil
}

// ValidateConfig validates a configuration and collects the problems found.
func ValidateConfig(config *CrawlerConfig) []ValidationError {
	var errs []ValidationError

	if config == nil {
		return append(errs, ValidationError{Path: "config", Message: "configuration cannot be nil"})
	}
	if err := config.Validate(); err != nil {
		errs = append(errs, ValidationError{Path: "config", Message: err.Error()})
	}
	return errs
}
