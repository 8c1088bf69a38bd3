// internal/extract/structural.go
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// selectorSpec is one attempt at locating a field: a CSS query plus the
// attribute to read, or direct text when Attr is empty.
type selectorSpec struct {
	Query string
	Attr  string
}

// structuralSelectors maps each primary field to its ordered selector
// list, most specific first. The first selector yielding a non-empty value
// wins; there is no scoring.
var structuralSelectors = map[string][]selectorSpec{
	types.FieldTitle: {
		{Query: "h1.entry-title"},
		{Query: "h1.title"},
		{Query: "div.movie-title"},
	},
	types.FieldYear: {
		{Query: ".ytps"},
		{Query: `span[class*="year"]`},
	},
	types.FieldPosterURL: {
		{Query: "div.entry-content img", Attr: "src"},
	},
	types.FieldStreamingLink: {
		{Query: "iframe", Attr: "src"},
	},
}

// structuralFieldOrder fixes the iteration order for logging and tests.
var structuralFieldOrder = []string{
	types.FieldTitle,
	types.FieldYear,
	types.FieldPosterURL,
	types.FieldStreamingLink,
}

// StructuralExtractor pulls primary fields directly from markup using
// ordered selector lists.
type StructuralExtractor struct {
	cleaner *Cleaner
	logger  utils.Logger
}

// NewStructuralExtractor creates a structural field extractor.
func NewStructuralExtractor(cleaner *Cleaner, logger utils.Logger) *StructuralExtractor {
	if cleaner == nil {
		cleaner = NewCleaner()
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &StructuralExtractor{cleaner: cleaner, logger: logger}
}

// Extract tries each field's selectors in order and returns the fields
// that matched. A field with no match is simply absent; a nil document is
// the one surfaced error.
func (e *StructuralExtractor) Extract(doc *goquery.Document) (map[string]string, error) {
	if doc == nil {
		return nil, utils.ErrNilDocument
	}

	fields := make(map[string]string)
	for _, field := range structuralFieldOrder {
		if value := e.firstNonEmpty(doc, structuralSelectors[field]); value != "" {
			fields[field] = value
		}
	}
	return fields, nil
}

// firstNonEmpty evaluates specs lazily, short-circuiting on the first
// non-empty value. Selector errors are swallowed and the next spec is
// tried.
func (e *StructuralExtractor) firstNonEmpty(doc *goquery.Document, specs []selectorSpec) string {
	for _, spec := range specs {
		value, err := e.evalSelector(doc, spec)
		if err != nil {
			e.logger.Warnf("selector %q failed: %v", spec.Query, err)
			continue
		}
		if value != "" {
			return value
		}
	}
	return ""
}

// evalSelector extracts one spec's value. goquery panics on selectors it
// cannot compile; that is converted into a per-selector error here so the
// cascade continues.
func (e *StructuralExtractor) evalSelector(doc *goquery.Document, spec selectorSpec) (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = ""
			err = utils.NewError(utils.ErrCodeParsingError, "invalid selector "+spec.Query)
		}
	}()

	sel := doc.Find(spec.Query).First()
	if sel.Length() == 0 {
		return "", nil
	}

	if spec.Attr != "" {
		attr, _ := sel.Attr(spec.Attr)
		return strings.TrimSpace(attr), nil
	}

	// Prefer the element's direct text nodes; fall back to descendant text
	// when the element itself carries none.
	if direct := directText(sel); direct != "" {
		return e.cleaner.Clean(direct), nil
	}
	if nested := normalizeSpace(sel.Text()); nested != "" {
		return e.cleaner.Clean(nested), nil
	}
	return "", nil
}

// directText joins the immediate text-node children of a selection.
func directText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		for _, node := range child.Nodes {
			if node.Type == html.TextNode {
				if text := strings.TrimSpace(node.Data); text != "" {
					parts = append(parts, text)
				}
			}
		}
	})
	return strings.Join(parts, " ")
}
