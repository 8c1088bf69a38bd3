// internal/extract/oracle.go
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BlockRanker is the external oracle that picks the most promising
// candidate block. Implementations may fail; callers must fall back
// deterministically.
type BlockRanker interface {
	Rank(ctx context.Context, candidates []string) (int, error)
}

// TextDensityRanker ranks candidate blocks by the length of their rendered
// text. It is the built-in deterministic oracle: no external service, no
// failure mode beyond an empty candidate list, ties resolved to the first
// candidate.
type TextDensityRanker struct{}

// NewTextDensityRanker creates the default ranker.
func NewTextDensityRanker() *TextDensityRanker {
	return &TextDensityRanker{}
}

// Rank returns the index of the candidate with the most rendered text.
// Candidates that fail to parse score zero.
func (r *TextDensityRanker) Rank(ctx context.Context, candidates []string) (int, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("no candidates to rank")
	}

	bestIndex, bestScore := 0, -1
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		score := 0
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(candidate)); err == nil {
			score = len(normalizeSpace(doc.Text()))
		}
		if score > bestScore {
			bestIndex, bestScore = i, score
		}
	}
	return bestIndex, nil
}
