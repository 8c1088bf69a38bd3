// internal/extract/textclean.go
package extract

import (
	"regexp"
	"strings"
	"sync"
)

// labelSeparator splits a "Label: value" line at the first colon, hyphen,
// or en dash.
var labelSeparator = regexp.MustCompile(`[:\-–]`)

// cleanerCacheLimit bounds the memoization table; the cache is flushed
// wholesale when it fills, which is cheaper than tracking recency for the
// short boilerplate strings pages repeat.
const cleanerCacheLimit = 256

// Cleaner normalizes raw label:value text into the value part. Results are
// memoized since catalogue boilerplate repeats the same strings across
// pages.
type Cleaner struct {
	mu    sync.Mutex
	cache map[string]string
}

// NewCleaner creates a text cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{cache: make(map[string]string)}
}

// Clean strips non-breaking spaces, drops a leading label up to the first
// separator, and trims the result. Text without a separator is returned
// trimmed as-is.
func (c *Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}

	c.mu.Lock()
	if cached, ok := c.cache[text]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	normalized := strings.ReplaceAll(text, "\u00a0", " ")

	result := strings.TrimSpace(normalized)
	if loc := labelSeparator.FindStringIndex(normalized); loc != nil {
		result = strings.TrimSpace(normalized[loc[1]:])
	}

	c.mu.Lock()
	if len(c.cache) >= cleanerCacheLimit {
		c.cache = make(map[string]string)
	}
	c.cache[text] = result
	c.mu.Unlock()

	return result
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
