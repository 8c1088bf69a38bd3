// internal/links/harvester.go
package links

import (
	"net/url"
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// listingSelector targets the containers catalogue sites typically wrap
// one listing in. A generic anchor sweep backs it up so oddly structured
// catalogues still yield their links.
const listingSelector = "div.item a, div.card a, div.movie a, " +
	"div.movie-entry a, div.movie-card a, article a"

// Harvester collects, resolves, and filters candidate navigation links
// from a page.
type Harvester struct {
	sink   RejectionSink
	logger utils.Logger
}

// NewHarvester creates a link harvester. The sink receives a (reason, url)
// tuple for every rejected link and may be nil.
func NewHarvester(sink RejectionSink, logger utils.Logger) *Harvester {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Harvester{sink: sink, logger: logger}
}

// Harvest extracts href attributes from listing-shaped containers plus
// every raw anchor, resolves each against baseURL, strips fragments, and
// keeps only links passing the shared validity predicate. The result is
// deduplicated and sorted for deterministic output.
func (h *Harvester) Harvest(doc *goquery.Document, baseURL string) ([]string, error) {
	if doc == nil {
		return nil, utils.ErrNilDocument
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		h.logger.Warnf("invalid base URL %q: %v", baseURL, err)
		base = nil
	}

	seen := make(map[string]struct{})
	collect := func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		resolved, err := Resolve(base, href)
		if err != nil {
			if h.sink != nil {
				h.sink(ReasonMalformed, href)
			}
			return
		}
		if IsValidLink(resolved, h.sink) {
			seen[resolved] = struct{}{}
		}
	}

	doc.Find(listingSelector).Each(collect)
	doc.Find("a").Each(collect)

	result := make([]string, 0, len(seen))
	for link := range seen {
		result = append(result, link)
	}
	sort.Strings(result)

	h.logger.Infof("harvested %d valid links after filtering", len(result))
	return result, nil
}
