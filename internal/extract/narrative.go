// internal/extract/narrative.go
package extract

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// Paragraph length window for label:value inference, in runes. Shorter
// text is noise; longer text is synopsis-like prose handled elsewhere.
const (
	minParagraphLength = 5
	maxParagraphLength = 200
)

// NarrativeExtractor scans free-text paragraphs and infers fields by fuzzy
// label matching. It is merged after structural extraction, so it only
// supplies fields not already found in markup.
type NarrativeExtractor struct {
	matcher *Matcher
	cleaner *Cleaner
	logger  utils.Logger
}

// NewNarrativeExtractor creates a paragraph-scanning extractor.
func NewNarrativeExtractor(matcher *Matcher, cleaner *Cleaner, logger utils.Logger) *NarrativeExtractor {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	if cleaner == nil {
		cleaner = NewCleaner()
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &NarrativeExtractor{matcher: matcher, cleaner: cleaner, logger: logger}
}

// Extract collects paragraphs from the main content container (all
// paragraphs when no such container exists), keeps those inside the length
// window, and assigns each to the best-matching unfilled field. The first
// sufficiently confident paragraph wins a field; later matches for the
// same field are ignored. A paragraph matching nothing contributes nothing
// and never aborts the scan.
func (e *NarrativeExtractor) Extract(doc *goquery.Document) (map[string]string, error) {
	if doc == nil {
		return nil, utils.ErrNilDocument
	}

	paragraphs := doc.Find("div.entry-content p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	fields := make(map[string]string)
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		text := normalizeSpace(p.Text())
		// Rune count, not bytes: multi-byte scripts would otherwise blow
		// the window on ordinary label:value lines.
		if length := utf8.RuneCountInString(text); length < minParagraphLength || length > maxParagraphLength {
			return
		}

		field, score := e.matcher.Match(text)
		if field == "" {
			return
		}
		if _, taken := fields[field]; taken {
			return
		}

		fields[field] = e.cleaner.Clean(text)
		e.logger.Debugf("paragraph matched field %s (score %d)", field, score)
	})

	return fields, nil
}

// MergeFields overlays narrative fields onto structural ones. Structural
// values win on collision; narrative only fills what is still unset.
func MergeFields(structural, narrative map[string]string) map[string]string {
	merged := make(map[string]string, len(structural)+len(narrative))
	for k, v := range structural {
		merged[k] = v
	}
	for k, v := range narrative {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return merged
}
