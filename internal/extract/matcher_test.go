package extract

import (
	"testing"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

func TestMatcherFindsKnownLabels(t *testing.T) {
	matcher := NewMatcher(nil)

	cases := []struct {
		text string
		want string
	}{
		{"Director", types.FieldDirector},
		{"director", types.FieldDirector},
		{"Directed by", types.FieldDirector},
		{"Genre", types.FieldGenre},
		{"Starring", types.FieldCast},
		{"Synopsis", types.FieldSynopsis},
		{"Director: John Doe", types.FieldDirector},
	}

	for _, tc := range cases {
		field, score := matcher.Match(tc.text)
		if field != tc.want {
			t.Errorf("Match(%q) = (%q, %d), want field %q", tc.text, field, score, tc.want)
		}
		if field != "" && score < DefaultConfidenceThreshold {
			t.Errorf("Match(%q) accepted with score %d below threshold", tc.text, score)
		}
	}
}

func TestMatcherEmptyAndUnmatched(t *testing.T) {
	matcher := NewMatcher(nil)

	if field, score := matcher.Match(""); field != "" || score != 0 {
		t.Errorf("empty input should yield (\"\", 0), got (%q, %d)", field, score)
	}
	if field, _ := matcher.Match("zzqx wvut"); field != "" {
		t.Errorf("gibberish should match nothing, got %q", field)
	}
}

func TestMatcherPerFieldThresholds(t *testing.T) {
	// The comparison is "highest score that clears its own bar", not
	// "highest raw score": a field with an unreachable threshold loses to
	// a lower-scoring field that clears its own.
	patterns := FieldPatterns{
		"strict": {Labels: []string{"director"}, Threshold: 101},
		"loose":  {Labels: []string{"direct"}, Threshold: 60},
	}
	matcher := NewMatcher(patterns)

	field, score := matcher.Match("director")
	if field != "loose" {
		t.Errorf("expected the field clearing its own bar to win, got (%q, %d)", field, score)
	}
}

func TestMatcherMemoization(t *testing.T) {
	calls := 0
	matcher := NewMatcherWithScorer(nil, func(text, label string) int {
		calls++
		return defaultScore(text, label)
	})

	field1, score1 := matcher.Match("Director")
	after := calls
	if after == 0 {
		t.Fatal("first match should invoke the scorer")
	}

	field2, score2 := matcher.Match("Director")
	if calls != after {
		t.Errorf("second match re-ran the scorer (%d extra calls)", calls-after)
	}
	if field1 != field2 || score1 != score2 {
		t.Errorf("cached result differs: (%q,%d) vs (%q,%d)", field1, score1, field2, score2)
	}

	// Case and surrounding space variations hit the same cache entry.
	matcher.Match("  DIRECTOR  ")
	if calls != after {
		t.Error("case/space variants should be served from cache")
	}
	if matcher.CacheSize() != 1 {
		t.Errorf("expected 1 cache entry, got %d", matcher.CacheSize())
	}
}

func TestThresholdFor(t *testing.T) {
	patterns := FieldPatterns{
		"a": {Labels: []string{"x"}, Threshold: 85},
		"b": {Labels: []string{"y"}},
	}

	if got := patterns.ThresholdFor("a"); got != 85 {
		t.Errorf("ThresholdFor(a) = %d, want 85", got)
	}
	if got := patterns.ThresholdFor("b"); got != DefaultConfidenceThreshold {
		t.Errorf("ThresholdFor(b) = %d, want default", got)
	}
	if got := patterns.ThresholdFor("missing"); got != DefaultConfidenceThreshold {
		t.Errorf("ThresholdFor(missing) = %d, want default", got)
	}
}
