// Package types defines the shared data model for MovieScrapexter:
// extracted movie records, page statistics, classification outcomes,
// and the result envelope returned by page processing.
package types

import (
	"time"
)

// Canonical field names produced by the extraction cascade. Extractors
// exchange partial results as maps keyed by these names before they are
// folded into a MovieRecord.
const (
	FieldTitle         = "title"
	FieldYear          = "year"
	FieldDirector      = "director"
	FieldCast          = "cast"
	FieldGenre         = "genre"
	FieldSynopsis      = "synopsis"
	FieldPosterURL     = "poster_url"
	FieldStreamingLink = "streaming_link"
)

// MaxSynopsisLength caps the synopsis field on a validated record.
const MaxSynopsisLength = 1000

// MovieRecord is the structured unit extracted from a detail page or a
// catalogue table row. Fields that were not found on the page are empty.
type MovieRecord struct {
	Title         string    `json:"title,omitempty" yaml:"title,omitempty"`
	Year          string    `json:"year,omitempty" yaml:"year,omitempty"`
	Director      string    `json:"director,omitempty" yaml:"director,omitempty"`
	Cast          string    `json:"cast,omitempty" yaml:"cast,omitempty"`
	Genre         string    `json:"genre,omitempty" yaml:"genre,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty" yaml:"synopsis,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty" yaml:"poster_url,omitempty"`
	StreamingLink string    `json:"streaming_link,omitempty" yaml:"streaming_link,omitempty"`
	SourceURL     string    `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	ScrapedAt     time.Time `json:"scraped_at,omitempty" yaml:"scraped_at,omitempty"`
}

// RecordFromFields builds a MovieRecord from a field-name keyed map.
// Unknown keys are ignored.
func RecordFromFields(fields map[string]string) MovieRecord {
	return MovieRecord{
		Title:         fields[FieldTitle],
		Year:          fields[FieldYear],
		Director:      fields[FieldDirector],
		Cast:          fields[FieldCast],
		Genre:         fields[FieldGenre],
		Synopsis:      fields[FieldSynopsis],
		PosterURL:     fields[FieldPosterURL],
		StreamingLink: fields[FieldStreamingLink],
	}
}

// Fields returns the record's extracted fields as a field-name keyed map,
// omitting empty values. Provenance fields (source URL, timestamp) are not
// included.
func (r MovieRecord) Fields() map[string]string {
	fields := map[string]string{
		FieldTitle:         r.Title,
		FieldYear:          r.Year,
		FieldDirector:      r.Director,
		FieldCast:          r.Cast,
		FieldGenre:         r.Genre,
		FieldSynopsis:      r.Synopsis,
		FieldPosterURL:     r.PosterURL,
		FieldStreamingLink: r.StreamingLink,
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

// IsEmpty reports whether no field was extracted at all.
func (r MovieRecord) IsEmpty() bool {
	return len(r.Fields()) == 0
}

// PageStats is an immutable snapshot of structural element counts on a
// parsed page. It is created once per classification call and discarded
// after the decision.
type PageStats struct {
	Links      int `json:"links"`
	Images     int `json:"images"`
	IFrames    int `json:"iframes"`
	Paragraphs int `json:"paragraphs"`
	Tables     int `json:"tables"`
}

// PageType is the closed set of classification outcomes.
type PageType int

const (
	// PageUnknown is the ambiguous remainder: neither catalogue nor
	// detail rules matched. It is not an error.
	PageUnknown PageType = iota
	// PageCatalogue is a listing page, primarily a source of links.
	PageCatalogue
	// PageDetail is a single-item page, primarily a source of fields.
	PageDetail
)

// String returns the wire name of the page type.
func (t PageType) String() string {
	switch t {
	case PageCatalogue:
		return "catalogue"
	case PageDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// PageResult is the envelope returned by the page orchestrator. Exactly one
// branch is populated depending on Type:
//
//	catalogue: Links and NextPage
//	detail:    Item
//	unknown:   FallbackLinks (empty today) and Error
type PageResult struct {
	Type          PageType     `json:"-"`
	TypeName      string       `json:"type"`
	Links         []string     `json:"links,omitempty"`
	NextPage      string       `json:"next_page,omitempty"`
	Item          *MovieRecord `json:"item,omitempty"`
	FallbackLinks []string     `json:"fallback_links,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// CataloguePage builds a catalogue result envelope.
func CataloguePage(links []string, nextPage string) PageResult {
	return PageResult{
		Type:     PageCatalogue,
		TypeName: PageCatalogue.String(),
		Links:    links,
		NextPage: nextPage,
	}
}

// DetailPage builds a detail result envelope.
func DetailPage(item MovieRecord) PageResult {
	return PageResult{
		Type:     PageDetail,
		TypeName: PageDetail.String(),
		Item:     &item,
	}
}

// UnknownPage builds an unknown result envelope with an optional reason.
func UnknownPage(reason string) PageResult {
	return PageResult{
		Type:          PageUnknown,
		TypeName:      PageUnknown.String(),
		FallbackLinks: []string{},
		Error:         reason,
	}
}
