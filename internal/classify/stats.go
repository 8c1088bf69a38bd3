// internal/classify/stats.go
package classify

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

// ProbeStats counts the structural signals used by the classifier: anchors,
// images, iframes, paragraphs, and tables anywhere in the document. Pure
// counts; document order and nesting are irrelevant. A document with no
// matches for a tag yields zero, never an error.
func ProbeStats(doc *goquery.Document) types.PageStats {
	if doc == nil {
		return types.PageStats{}
	}

	return types.PageStats{
		Links:      doc.Find("a").Length(),
		Images:     doc.Find("img").Length(),
		IFrames:    doc.Find("iframe").Length(),
		Paragraphs: doc.Find("p").Length(),
		Tables:     doc.Find("table").Length(),
	}
}
