// internal/extract/orchestrator.go
package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/internal/classify"
	"github.com/valpere/MovieScrapexter/internal/links"
	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// nextPageSelector is the pagination cue read from catalogue pages.
const nextPageSelector = "a.next.page-numbers"

// Orchestrator composes classification and the extraction cascade into the
// per-page decision: classify once, then dispatch to link harvesting,
// field extraction, or the fallback block path. It holds no per-page
// state; everything page-scoped is local to HandlePage.
type Orchestrator struct {
	classifier *classify.Classifier
	harvester  *links.Harvester
	structural *StructuralExtractor
	narrative  *NarrativeExtractor
	tabular    *TableExtractor
	fallback   *FallbackSelector
	logger     utils.Logger
}

// NewOrchestrator wires the page-processing pipeline. Nil collaborators
// are replaced with defaults.
func NewOrchestrator(
	classifier *classify.Classifier,
	harvester *links.Harvester,
	structural *StructuralExtractor,
	narrative *NarrativeExtractor,
	tabular *TableExtractor,
	fallback *FallbackSelector,
	logger utils.Logger,
) *Orchestrator {
	if logger == nil {
		logger = utils.NewLogger()
	}
	if classifier == nil {
		classifier = classify.NewClassifier(nil, nil, logger)
	}
	if harvester == nil {
		harvester = links.NewHarvester(nil, logger)
	}
	cleaner := NewCleaner()
	matcher := NewMatcher(nil)
	if structural == nil {
		structural = NewStructuralExtractor(cleaner, logger)
	}
	if narrative == nil {
		narrative = NewNarrativeExtractor(matcher, cleaner, logger)
	}
	if tabular == nil {
		tabular = NewTableExtractor(matcher, logger)
	}
	if fallback == nil {
		fallback = NewFallbackSelector(nil, logger)
	}
	return &Orchestrator{
		classifier: classifier,
		harvester:  harvester,
		structural: structural,
		narrative:  narrative,
		tabular:    tabular,
		fallback:   fallback,
		logger:     logger,
	}
}

// HandlePage classifies one fetched page and returns the result envelope.
// Content-shape ambiguity never produces an error; the only surfaced
// failures are contract violations such as unparseable input.
func (o *Orchestrator) HandlePage(ctx context.Context, html, pageURL string) (types.PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.PageResult{}, utils.WrapError(utils.ErrCodeParsingError, "parsing page "+pageURL, err)
	}

	// One stats snapshot feeds both predicates to avoid double probing.
	stats := classify.ProbeStats(doc)

	if o.classifier.IsCatalogueStats(stats, doc) {
		harvested, err := o.harvester.Harvest(doc, pageURL)
		if err != nil {
			return types.PageResult{}, err
		}
		nextPage, _ := doc.Find(nextPageSelector).First().Attr("href")
		o.logger.Infof("catalogue page %s: %d links", pageURL, len(harvested))
		return types.CataloguePage(harvested, nextPage), nil
	}

	if o.classifier.IsDetailStats(stats) {
		record, err := o.extractDetail(doc)
		if err != nil {
			return types.PageResult{}, err
		}
		o.logger.Infof("detail page %s: %d fields", pageURL, len(record.Fields()))
		return types.DetailPage(record), nil
	}

	return o.handleUnknown(ctx, doc, pageURL)
}

// ExtractTableRecords scans embedded tables for auxiliary records, used on
// detail pages that carry related-item listings.
func (o *Orchestrator) ExtractTableRecords(html string) ([]types.MovieRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeParsingError, "parsing table source", err)
	}
	return o.tabular.ExtractAll(doc)
}

// extractDetail merges structural and narrative extraction. Structural
// wins on field collision since it is tried first.
func (o *Orchestrator) extractDetail(doc *goquery.Document) (types.MovieRecord, error) {
	structural, err := o.structural.Extract(doc)
	if err != nil {
		return types.MovieRecord{}, err
	}
	narrative, err := o.narrative.Extract(doc)
	if err != nil {
		return types.MovieRecord{}, err
	}
	return types.RecordFromFields(MergeFields(structural, narrative)), nil
}

// handleUnknown runs the fallback block path: mine candidates, let the
// oracle pick one, and re-run detail extraction on the winner as a pseudo
// detail page.
func (o *Orchestrator) handleUnknown(ctx context.Context, doc *goquery.Document, pageURL string) (types.PageResult, error) {
	candidates := o.fallback.CandidateBlocks(doc)
	if len(candidates) == 0 {
		o.logger.Infof("unknown page %s: no fallback candidates", pageURL)
		return types.UnknownPage("unknown page, no fallback possible"), nil
	}

	block, ok := o.fallback.Pick(ctx, candidates)
	if !ok {
		return types.UnknownPage("unknown page, no fallback possible"), nil
	}

	blockDoc, err := goquery.NewDocumentFromReader(strings.NewReader(block))
	if err != nil {
		o.logger.Warnf("fallback block unparseable for %s: %v", pageURL, err)
		return types.UnknownPage("fallback block unparseable"), nil
	}

	record, err := o.extractDetail(blockDoc)
	if err != nil {
		return types.PageResult{}, err
	}
	o.logger.Infof("fallback detail for %s: %d fields", pageURL, len(record.Fields()))
	return types.DetailPage(record), nil
}
