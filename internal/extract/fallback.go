// internal/extract/fallback.go
package extract

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// Candidate block limits, in runes.
const (
	maxCandidateBlocks  = 5
	maxSnippetLength    = 1500
	minCandidateTextLen = 30
)

// blacklistKeywords marks blocks that are navigation chrome or marketing
// rather than listings.
var blacklistKeywords = []string{
	"login", "subscribe", "advertisement", "sponsored", "cookie",
}

// FallbackSelector is the last resort when classification yields neither
// catalogue nor detail: mine the page for block candidates that look like
// a single listing, let the oracle pick one, and treat the winner as a
// pseudo detail page.
type FallbackSelector struct {
	ranker BlockRanker
	logger utils.Logger
}

// NewFallbackSelector creates a fallback selector. A nil ranker uses the
// built-in text-density oracle.
func NewFallbackSelector(ranker BlockRanker, logger utils.Logger) *FallbackSelector {
	if ranker == nil {
		ranker = NewTextDensityRanker()
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &FallbackSelector{ranker: ranker, logger: logger}
}

// CandidateBlocks extracts up to maxCandidateBlocks HTML snippets believed
// to each contain one listing: div/section/article elements that carry an
// image, a link, and more than minCandidateTextLen characters of text, with
// blacklisted marketing blocks removed. Candidates are ranked by
// untruncated text length descending, then truncated for downstream
// payloads.
func (f *FallbackSelector) CandidateBlocks(doc *goquery.Document) []string {
	if doc == nil {
		return nil
	}

	type candidate struct {
		snippet string
		textLen int
	}
	var candidates []candidate

	doc.Find("div, section, article").Each(func(_ int, block *goquery.Selection) {
		if block.Find("img").Length() == 0 || block.Find("a").Length() == 0 {
			return
		}

		text := normalizeSpace(block.Text())
		textLen := utf8.RuneCountInString(text)
		if textLen <= minCandidateTextLen {
			return
		}

		lower := strings.ToLower(text)
		for _, keyword := range blacklistKeywords {
			if strings.Contains(lower, keyword) {
				return
			}
		}

		snippet, err := goquery.OuterHtml(block)
		if err != nil {
			return
		}
		// Truncate on a rune boundary so multi-byte markup never yields an
		// invalid UTF-8 payload.
		if runes := []rune(snippet); len(runes) > maxSnippetLength {
			snippet = string(runes[:maxSnippetLength])
		}
		candidates = append(candidates, candidate{snippet: snippet, textLen: textLen})
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].textLen > candidates[j].textLen
	})
	if len(candidates) > maxCandidateBlocks {
		candidates = candidates[:maxCandidateBlocks]
	}

	snippets := make([]string, len(candidates))
	for i, c := range candidates {
		snippets[i] = c.snippet
	}
	return snippets
}

// Pick hands the candidates to the ranking oracle and returns the chosen
// snippet. Oracle failure or an out-of-range index falls back to candidate
// zero; with at least one candidate this always succeeds.
func (f *FallbackSelector) Pick(ctx context.Context, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	index, err := f.ranker.Rank(ctx, candidates)
	if err != nil || index < 0 || index >= len(candidates) {
		if err != nil {
			f.logger.Warnf("block ranking failed, using first candidate: %v", err)
		} else {
			f.logger.Warnf("block ranking returned out-of-range index %d, using first candidate", index)
		}
		index = 0
	}
	return candidates[index], true
}
