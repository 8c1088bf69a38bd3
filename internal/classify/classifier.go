// internal/classify/classifier.go
package classify

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// Classifier decides whether a page looks like a catalogue listing or a
// single-item detail page from its structural statistics. It is a pure
// function of (stats, thresholds, rules); the same inputs always produce
// the same decision.
type Classifier struct {
	thresholds RuleThresholds
	rules      []Rule
	logger     utils.Logger
}

// NewClassifier creates a classifier with the given thresholds and rules.
// Nil arguments fall back to the built-in defaults.
func NewClassifier(thresholds RuleThresholds, rules []Rule, logger utils.Logger) *Classifier {
	if thresholds == nil {
		thresholds = DefaultRuleThresholds()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Classifier{
		thresholds: thresholds,
		rules:      rules,
		logger:     logger,
	}
}

// IsDetailStats is the detail-like predicate over a stats snapshot: at least
// one embedded player and a low link count reads as a single item. Known
// weakness: a catalogue embedding one promotional video also matches.
func (c *Classifier) IsDetailStats(stats types.PageStats) bool {
	return stats.IFrames >= c.thresholds.Get(ThresholdDetailMinIFrames, 1) &&
		stats.Links < c.thresholds.Get(ThresholdDetailMaxLinks, 30)
}

// IsCatalogueStats evaluates the weighted rule set over a stats snapshot.
// The detail-like predicate takes precedence: a detail-looking page is never
// a catalogue, regardless of the other rules.
func (c *Classifier) IsCatalogueStats(stats types.PageStats, doc *goquery.Document) bool {
	if c.IsDetailStats(stats) {
		return false
	}

	results := EvaluateRules(c.rules, RuleContext{
		Stats:      stats,
		Document:   doc,
		Thresholds: c.thresholds,
	})
	score := Score(results)

	for _, r := range results {
		c.logger.Debugf("rule %s: passed=%v weight=%d", r.Name, r.Passed, r.Weight)
	}
	c.logger.Debugf("catalogue score %d (threshold %d)", score, c.thresholds.Get(ThresholdScore, 4))

	return score >= c.thresholds.Get(ThresholdScore, 4)
}

// IsCataloguePage probes the document and applies IsCatalogueStats.
func (c *Classifier) IsCataloguePage(doc *goquery.Document) bool {
	return c.IsCatalogueStats(ProbeStats(doc), doc)
}

// IsDetailPage probes the document and applies the detail-like predicate.
// It is the predicate itself, not the catalogue classifier's negation, so
// the two may disagree on genuinely ambiguous pages.
func (c *Classifier) IsDetailPage(doc *goquery.Document) bool {
	return c.IsDetailStats(ProbeStats(doc))
}
