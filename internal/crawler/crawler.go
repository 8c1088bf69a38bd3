// internal/crawler/crawler.go

// Package crawler drives a breadth-first crawl: fetch a page, classify it,
// follow catalogue links, and persist records extracted from detail pages.
package crawler

import (
	"context"
	"net/url"
	"time"

	"github.com/valpere/MovieScrapexter/internal/classify"
	"github.com/valpere/MovieScrapexter/internal/config"
	"github.com/valpere/MovieScrapexter/internal/extract"
	"github.com/valpere/MovieScrapexter/internal/fetcher"
	"github.com/valpere/MovieScrapexter/internal/links"
	"github.com/valpere/MovieScrapexter/internal/monitoring"
	"github.com/valpere/MovieScrapexter/internal/output"
	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// RunStats summarizes one crawl run.
type RunStats struct {
	PagesFetched   int
	FetchFailures  int
	CataloguePages int
	DetailPages    int
	UnknownPages   int
	RecordsWritten int
	InvalidRecords int
}

// Crawler owns the frontier, the visited set, and the collaborators of one
// run. It is not safe for concurrent use; one Crawler drives one run.
type Crawler struct {
	cfg          *config.CrawlerConfig
	fetch        fetcher.Fetcher
	orchestrator *extract.Orchestrator
	writer       output.Writer
	metrics      *monitoring.Metrics
	logger       utils.Logger

	visited map[string]bool
	allowed map[string]bool
}

type frontierEntry struct {
	url   string
	depth int
}

// New wires a crawler from configuration. The fetcher and writer are owned
// by the caller and not closed here.
func New(cfg *config.CrawlerConfig, fetch fetcher.Fetcher, writer output.Writer, metrics *monitoring.Metrics, logger utils.Logger) (*Crawler, error) {
	if cfg == nil {
		return nil, utils.NewError(utils.ErrCodeMissingConfig, "crawler requires a configuration")
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	seed, err := url.Parse(cfg.Target.StartURL)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeInvalidConfig, "parsing start URL", err)
	}

	allowed := make(map[string]bool)
	allowed[seed.Hostname()] = true
	for _, domain := range cfg.Target.AllowedDomains {
		allowed[domain] = true
	}

	c := &Crawler{
		cfg:     cfg,
		fetch:   fetch,
		writer:  writer,
		metrics: metrics,
		logger:  logger,
		visited: make(map[string]bool),
		allowed: allowed,
	}
	c.orchestrator = c.buildOrchestrator()
	return c, nil
}

// buildOrchestrator assembles the page pipeline with configuration-tuned
// classification and field matching, and with link rejections routed into
// metrics.
func (c *Crawler) buildOrchestrator() *extract.Orchestrator {
	thresholds := classify.DefaultRuleThresholds()
	for name, value := range c.cfg.Classifier.Thresholds {
		thresholds[name] = value
	}
	rules := classify.DefaultRules()
	for i, rule := range rules {
		if weight, ok := c.cfg.Classifier.RuleWeights[rule.Name]; ok {
			rules[i].Weight = weight
		}
	}
	classifier := classify.NewClassifier(thresholds, rules, c.logger)

	sink := func(reason, rawURL string) {
		c.metrics.LinkRejected(reason)
		c.logger.Debugf("rejected link %q: %s", rawURL, reason)
	}
	harvester := links.NewHarvester(sink, c.logger)

	patterns := c.fieldPatterns()
	cleaner := extract.NewCleaner()
	matcher := extract.NewMatcher(patterns)
	structural := extract.NewStructuralExtractor(cleaner, c.logger)
	narrative := extract.NewNarrativeExtractor(matcher, cleaner, c.logger)
	tabular := extract.NewTableExtractor(matcher, c.logger)
	fallback := extract.NewFallbackSelector(nil, c.logger)

	return extract.NewOrchestrator(classifier, harvester, structural, narrative, tabular, fallback, c.logger)
}

// fieldPatterns converts the configured field mappings for the target
// content type into matcher patterns.
func (c *Crawler) fieldPatterns() extract.FieldPatterns {
	mappings := c.cfg.Fields.MappingsFor(c.cfg.Target.ContentType)
	if mappings == nil {
		return extract.DefaultMoviePatterns()
	}
	patterns := make(extract.FieldPatterns, len(mappings))
	for field, mapping := range mappings {
		patterns[field] = extract.FieldPattern{
			Labels:    mapping.Labels,
			Threshold: mapping.ConfidenceThreshold,
		}
	}
	return patterns
}

// Run crawls from the seed until the frontier is exhausted or the page
// budget runs out.
func (c *Crawler) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	frontier := []frontierEntry{{url: c.cfg.Target.StartURL, depth: 0}}

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if c.cfg.Target.MaxPages > 0 && stats.PagesFetched >= c.cfg.Target.MaxPages {
			c.logger.Infof("page budget reached (%d), stopping", c.cfg.Target.MaxPages)
			break
		}

		entry := frontier[0]
		frontier = frontier[1:]

		if c.visited[entry.url] || !c.inScope(entry.url) {
			continue
		}
		c.visited[entry.url] = true

		start := time.Now()
		html, finalURL, err := c.fetch.Fetch(ctx, entry.url)
		c.metrics.FetchObserved("page", time.Since(start).Seconds(), err)
		stats.PagesFetched++
		if err != nil {
			stats.FetchFailures++
			c.logger.Warnf("fetch failed for %s: %v", entry.url, err)
			continue
		}
		c.visited[finalURL] = true

		result, err := c.orchestrator.HandlePage(ctx, html, finalURL)
		if err != nil {
			c.logger.Warnf("page handling failed for %s: %v", finalURL, err)
			continue
		}
		c.metrics.PageClassified(result.TypeName)

		switch result.Type {
		case types.PageCatalogue:
			stats.CataloguePages++
			c.metrics.LinksHarvested(len(result.Links))
			if entry.depth < c.cfg.Target.MaxDepth {
				for _, link := range result.Links {
					if !c.visited[link] && c.inScope(link) {
						frontier = append(frontier, frontierEntry{url: link, depth: entry.depth + 1})
					}
				}
			}
			if next := c.resolveNextPage(finalURL, result.NextPage); next != "" {
				// Pagination stays at the same depth as the page that
				// advertised it.
				if !c.visited[next] && c.inScope(next) {
					frontier = append(frontier, frontierEntry{url: next, depth: entry.depth})
				}
			}

		case types.PageDetail:
			stats.DetailPages++
			c.persistDetail(ctx, *result.Item, finalURL, html, &stats)

		default:
			stats.UnknownPages++
			c.logger.Infof("unclassified page %s: %s", finalURL, result.Error)
		}
	}

	return stats, nil
}

// persistDetail validates and writes the page record plus any auxiliary
// records found in embedded tables.
func (c *Crawler) persistDetail(ctx context.Context, record types.MovieRecord, pageURL, html string, stats *RunStats) {
	records := []types.MovieRecord{record}
	if auxiliary, err := c.orchestrator.ExtractTableRecords(html); err == nil {
		records = append(records, auxiliary...)
	}

	batch := make([]types.MovieRecord, 0, len(records))
	for _, r := range records {
		validated, err := ValidateRecord(r)
		if err != nil {
			stats.InvalidRecords++
			c.logger.Warnf("dropping invalid record from %s: %v", pageURL, err)
			continue
		}
		validated.SourceURL = pageURL
		validated.ScrapedAt = time.Now().UTC()
		batch = append(batch, validated)
		c.metrics.RecordExtracted(validated.Fields())
	}

	if len(batch) == 0 || c.writer == nil {
		return
	}
	if err := c.writer.Write(ctx, batch); err != nil {
		c.metrics.OutputError()
		c.logger.Errorf("writing records from %s: %v", pageURL, err)
		return
	}
	stats.RecordsWritten += len(batch)
	c.metrics.RecordsWritten(len(batch))
}

// resolveNextPage turns a raw pagination href into an absolute URL.
func (c *Crawler) resolveNextPage(pageURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	resolved, err := links.Resolve(base, href)
	if err != nil || !links.IsValidLink(resolved, nil) {
		return ""
	}
	return resolved
}

// inScope reports whether a URL stays on an allowed host.
func (c *Crawler) inScope(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return c.allowed[parsed.Hostname()]
}
