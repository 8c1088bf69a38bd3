package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

type failingRanker struct{}

func (failingRanker) Rank(_ context.Context, _ []string) (int, error) {
	return 0, errors.New("oracle unavailable")
}

type fixedRanker struct{ index int }

func (r fixedRanker) Rank(_ context.Context, _ []string) (int, error) {
	return r.index, nil
}

func candidateBlock(text string) string {
	return fmt.Sprintf(`<section><img src="/p.jpg"><a href="/m/1">link</a><p>%s</p></section>`, text)
}

func TestCandidateBlocksQualify(t *testing.T) {
	html := `<html><body>
		` + candidateBlock("A movie listing with a poster and enough descriptive text.") + `
		<section><a href="/no-image">text only, no image, long enough to qualify otherwise</a></section>
		<section><img src="/i.jpg"><p>image but no link, long enough to qualify otherwise</p></section>
		<section><img src="/i.jpg"><a href="/short">tiny</a></section>
	</body></html>`

	selector := NewFallbackSelector(nil, nil)
	candidates := selector.CandidateBlocks(parseDoc(t, html))

	if len(candidates) != 1 {
		t.Fatalf("expected 1 qualifying candidate, got %d", len(candidates))
	}
	if !strings.Contains(candidates[0], "A movie listing") {
		t.Errorf("wrong candidate selected: %q", candidates[0])
	}
}

func TestCandidateBlocksBlacklist(t *testing.T) {
	html := `<html><body>
		` + candidateBlock("Subscribe to our newsletter for more updates and offers today.") + `
		` + candidateBlock("This sponsored content is brought to you by our partners now.") + `
		` + candidateBlock("An actual movie listing with a title and a release year here.") + `
	</body></html>`

	selector := NewFallbackSelector(nil, nil)
	candidates := selector.CandidateBlocks(parseDoc(t, html))

	if len(candidates) != 1 {
		t.Fatalf("blacklisted blocks must be dropped, got %d candidates", len(candidates))
	}
	if !strings.Contains(candidates[0], "actual movie listing") {
		t.Errorf("wrong candidate survived: %q", candidates[0])
	}
}

func TestCandidateBlocksTruncation(t *testing.T) {
	long := strings.Repeat("movie description text ", 200)
	html := "<html><body>" + candidateBlock(long) + "</body></html>"

	selector := NewFallbackSelector(nil, nil)
	candidates := selector.CandidateBlocks(parseDoc(t, html))

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(candidates[0]) > maxSnippetLength {
		t.Errorf("snippet length %d exceeds cap %d", len(candidates[0]), maxSnippetLength)
	}
}

func TestCandidateBlocksMultiByteText(t *testing.T) {
	// 40 runes of a 3-byte-per-rune script clears the 30-character floor,
	// and truncation of an oversized snippet must land on a rune boundary.
	short := candidateBlock(strings.Repeat("မ", 40))
	long := candidateBlock(strings.Repeat("ဇာတ်ကား ", 300))
	html := "<html><body>" + short + long + "</body></html>"

	selector := NewFallbackSelector(nil, nil)
	candidates := selector.CandidateBlocks(parseDoc(t, html))

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if !utf8.ValidString(c) {
			t.Error("truncated snippet must remain valid UTF-8")
		}
		if runes := utf8.RuneCountInString(c); runes > maxSnippetLength {
			t.Errorf("snippet rune count %d exceeds cap %d", runes, maxSnippetLength)
		}
	}
}

func TestCandidateBlocksCapAndOrder(t *testing.T) {
	var blocks []string
	for i := 1; i <= 7; i++ {
		blocks = append(blocks, candidateBlock(
			fmt.Sprintf("block%d ", i)+strings.Repeat("filler text ", i*4)))
	}
	html := "<html><body>" + strings.Join(blocks, "\n") + "</body></html>"

	selector := NewFallbackSelector(nil, nil)
	candidates := selector.CandidateBlocks(parseDoc(t, html))

	if len(candidates) != maxCandidateBlocks {
		t.Fatalf("expected %d candidates, got %d", maxCandidateBlocks, len(candidates))
	}
	// Longest text first; the two shortest blocks fall off the end.
	if !strings.Contains(candidates[0], "block7") {
		t.Errorf("expected the longest block first, got %q", candidates[0])
	}
	for _, c := range candidates {
		if strings.Contains(c, "block1 ") || strings.Contains(c, "block2 ") {
			t.Errorf("short block survived the cap: %q", c)
		}
	}
}

func TestPickOracleFailureUsesFirstCandidate(t *testing.T) {
	selector := NewFallbackSelector(failingRanker{}, nil)

	block, ok := selector.Pick(context.Background(), []string{"first", "second"})
	if !ok {
		t.Fatal("pick must succeed when candidates exist")
	}
	if block != "first" {
		t.Errorf("oracle failure must fall back to candidate zero, got %q", block)
	}
}

func TestPickOutOfRangeIndexUsesFirstCandidate(t *testing.T) {
	selector := NewFallbackSelector(fixedRanker{index: 9}, nil)

	block, ok := selector.Pick(context.Background(), []string{"first", "second"})
	if !ok || block != "first" {
		t.Errorf("out-of-range rank must fall back to candidate zero, got (%q, %v)", block, ok)
	}
}

func TestPickHonoursOracleChoice(t *testing.T) {
	selector := NewFallbackSelector(fixedRanker{index: 1}, nil)

	block, ok := selector.Pick(context.Background(), []string{"first", "second"})
	if !ok || block != "second" {
		t.Errorf("expected the oracle's pick, got (%q, %v)", block, ok)
	}
}

func TestPickNoCandidates(t *testing.T) {
	selector := NewFallbackSelector(nil, nil)

	if _, ok := selector.Pick(context.Background(), nil); ok {
		t.Error("empty candidate list must not produce a pick")
	}
}

func TestTextDensityRanker(t *testing.T) {
	ranker := NewTextDensityRanker()

	dense := candidateBlock("a long and detailed description of a single movie listing with plenty of words")
	sparse := candidateBlock("short words here but still over the threshold")

	index, err := ranker.Rank(context.Background(), []string{sparse, dense})
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if index != 1 {
		t.Errorf("expected the denser block to win, got index %d", index)
	}

	if _, err := ranker.Rank(context.Background(), nil); err == nil {
		t.Error("ranking an empty list must error")
	}
}
