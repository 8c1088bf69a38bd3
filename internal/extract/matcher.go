// internal/extract/matcher.go
package extract

import (
	"sort"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

// DefaultConfidenceThreshold is the minimum similarity score a fuzzy match
// must clear when a field configures none of its own.
const DefaultConfidenceThreshold = 70

// FieldPattern holds the known label aliases for one canonical field and
// the confidence a match against them must reach.
type FieldPattern struct {
	Labels    []string
	Threshold int
}

// FieldPatterns maps canonical field names to their label patterns. Loaded
// once per run and shared read-only across extraction calls.
type FieldPatterns map[string]FieldPattern

// DefaultMoviePatterns returns the built-in label dictionary for the
// "movies" content type.
func DefaultMoviePatterns() FieldPatterns {
	return FieldPatterns{
		types.FieldTitle: {
			Labels:    []string{"title", "movie title", "name", "film"},
			Threshold: DefaultConfidenceThreshold,
		},
		types.FieldYear: {
			Labels:    []string{"year", "release year", "released", "date"},
			Threshold: DefaultConfidenceThreshold,
		},
		types.FieldDirector: {
			Labels:    []string{"director", "directed by", "direction"},
			Threshold: DefaultConfidenceThreshold,
		},
		types.FieldCast: {
			Labels:    []string{"cast", "starring", "actors", "stars"},
			Threshold: DefaultConfidenceThreshold,
		},
		types.FieldGenre: {
			Labels:    []string{"genre", "category", "type"},
			Threshold: DefaultConfidenceThreshold,
		},
		types.FieldSynopsis: {
			Labels:    []string{"synopsis", "plot", "summary", "story", "description"},
			Threshold: DefaultConfidenceThreshold,
		},
	}
}

// ThresholdFor returns the configured threshold for a field, or the
// default when the field configures none.
func (p FieldPatterns) ThresholdFor(field string) int {
	if pattern, ok := p[field]; ok && pattern.Threshold > 0 {
		return pattern.Threshold
	}
	return DefaultConfidenceThreshold
}

// ScoreFunc computes a 0..100 similarity between text and a label.
type ScoreFunc func(text, label string) int

// defaultScore mirrors the fuzzywuzzy weighted scorer closely enough for
// label matching: the better of the plain ratio and the best-substring
// partial ratio.
func defaultScore(text, label string) int {
	ratio := fuzzy.Ratio(text, label)
	if partial := fuzzy.PartialRatio(text, label); partial > ratio {
		return partial
	}
	return ratio
}

type matchResult struct {
	field string
	score int
}

// Matcher maps arbitrary text to the best-matching known field name with a
// confidence score. Matching is memoized: identical text always returns the
// identical result without re-scoring, which matters because table headers
// and boilerplate paragraphs repeat across pages. The cache is lock-guarded
// so one matcher may be shared across workers.
type Matcher struct {
	patterns FieldPatterns
	score    ScoreFunc

	mu    sync.RWMutex
	cache map[string]matchResult
}

// NewMatcher creates a matcher over the given field patterns. Nil patterns
// fall back to the movie defaults.
func NewMatcher(patterns FieldPatterns) *Matcher {
	if patterns == nil {
		patterns = DefaultMoviePatterns()
	}
	return &Matcher{
		patterns: patterns,
		score:    defaultScore,
		cache:    make(map[string]matchResult),
	}
}

// NewMatcherWithScorer creates a matcher with a custom similarity function,
// used by tests to observe scoring calls.
func NewMatcherWithScorer(patterns FieldPatterns, score ScoreFunc) *Matcher {
	m := NewMatcher(patterns)
	if score != nil {
		m.score = score
	}
	return m
}

// Match returns the best (field, score) pair for the text across all
// fields, considering only matches that clear their own field's threshold.
// Empty input or no sufficiently confident match yields ("", 0).
func (m *Matcher) Match(text string) (string, int) {
	key := strings.ToLower(strings.TrimSpace(text))
	if key == "" {
		return "", 0
	}

	m.mu.RLock()
	if cached, ok := m.cache[key]; ok {
		m.mu.RUnlock()
		return cached.field, cached.score
	}
	m.mu.RUnlock()

	// Fields are visited in sorted order so score ties resolve the same
	// way on every run.
	fields := make([]string, 0, len(m.patterns))
	for field := range m.patterns {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	bestField, bestScore := "", 0
	for _, field := range fields {
		pattern := m.patterns[field]
		threshold := m.patterns.ThresholdFor(field)
		for _, label := range pattern.Labels {
			score := m.score(key, strings.ToLower(label))
			if score >= threshold && score > bestScore {
				bestField, bestScore = field, score
			}
		}
	}

	m.mu.Lock()
	m.cache[key] = matchResult{field: bestField, score: bestScore}
	m.mu.Unlock()

	return bestField, bestScore
}

// CacheSize reports the number of memoized texts, for diagnostics.
func (m *Matcher) CacheSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
