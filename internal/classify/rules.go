// internal/classify/rules.go
package classify

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

// Threshold names understood by the rule set.
const (
	ThresholdLinkHeavyMinLinks     = "link_heavy_min_links"
	ThresholdLinkHeavyMaxIFrames   = "link_heavy_max_iframes"
	ThresholdTextHeavyMinParas     = "text_heavy_min_paragraphs"
	ThresholdTextHeavyMaxImages    = "text_heavy_max_images"
	ThresholdFallbackMinLinks      = "fallback_min_links"
	ThresholdFallbackMaxImages     = "fallback_max_images"
	ThresholdTableMinRows          = "table_min_rows"
	ThresholdScore                 = "score_threshold"
	ThresholdDetailMinIFrames      = "detail_min_iframes"
	ThresholdDetailMaxLinks        = "detail_max_links"
)

// RuleThresholds is the named numeric configuration consumed by rule
// functions. Loaded once per run and treated as read-only.
type RuleThresholds map[string]int

// DefaultRuleThresholds returns the stock thresholds.
func DefaultRuleThresholds() RuleThresholds {
	return RuleThresholds{
		ThresholdLinkHeavyMinLinks:   50,
		ThresholdLinkHeavyMaxIFrames: 0,
		ThresholdTextHeavyMinParas:   50,
		ThresholdTextHeavyMaxImages:  5,
		ThresholdFallbackMinLinks:    30,
		ThresholdFallbackMaxImages:   5,
		ThresholdTableMinRows:        3,
		ThresholdScore:               4,
		ThresholdDetailMinIFrames:    1,
		ThresholdDetailMaxLinks:      30,
	}
}

// Get returns the named threshold, or def when absent.
func (t RuleThresholds) Get(name string, def int) int {
	if v, ok := t[name]; ok {
		return v
	}
	return def
}

// RuleContext carries everything a rule may need. Most rules only read the
// stats; the table rule also inspects the document. One call shape for all
// rules keeps the evaluator free of per-rule special cases.
type RuleContext struct {
	Stats      types.PageStats
	Document   *goquery.Document
	Thresholds RuleThresholds
}

// RuleFunc decides whether a single catalogue signal is present.
type RuleFunc func(ctx RuleContext) (bool, error)

// Rule pairs a named rule function with its score weight. The rule set is
// ordered for diagnostics only; the score is a commutative sum.
type Rule struct {
	Name   string
	Fn     RuleFunc
	Weight int
}

// RuleResult records one rule evaluation. A rule that returned an error is
// recorded as failed, never propagated.
type RuleResult struct {
	Name   string
	Passed bool
	Weight int
}

// DefaultRules returns the built-in catalogue rule set with default weights.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "link_heavy", Fn: ruleLinkHeavy, Weight: 2},
		{Name: "text_heavy", Fn: ruleTextHeavy, Weight: 2},
		{Name: "table_catalogue", Fn: ruleTableCatalogue, Weight: 3},
		{Name: "fallback_links", Fn: ruleFallbackLinks, Weight: 1},
	}
}

// ruleLinkHeavy: many links and no embedded players.
func ruleLinkHeavy(ctx RuleContext) (bool, error) {
	return ctx.Stats.Links > ctx.Thresholds.Get(ThresholdLinkHeavyMinLinks, 50) &&
		ctx.Stats.IFrames <= ctx.Thresholds.Get(ThresholdLinkHeavyMaxIFrames, 0), nil
}

// ruleTextHeavy: many paragraphs and few images, typical of index listings.
func ruleTextHeavy(ctx RuleContext) (bool, error) {
	return ctx.Stats.Paragraphs > ctx.Thresholds.Get(ThresholdTextHeavyMinParas, 50) &&
		ctx.Stats.Images <= ctx.Thresholds.Get(ThresholdTextHeavyMaxImages, 5), nil
}

// ruleTableCatalogue: at least one single table with enough body rows.
// Rows are never aggregated across tables; a page of many short tables is
// not a listing.
func ruleTableCatalogue(ctx RuleContext) (bool, error) {
	if ctx.Stats.Tables < 1 {
		return false, nil
	}
	if ctx.Document == nil {
		return false, fmt.Errorf("table rule requires a document")
	}

	minRows := ctx.Thresholds.Get(ThresholdTableMinRows, 3)
	passed := false
	ctx.Document.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if bodyRowCount(table) >= minRows {
			passed = true
			return false
		}
		return true
	})
	return passed, nil
}

// bodyRowCount counts a table's data rows. With an explicit thead the body
// rows are every row outside it; otherwise the first row serves as the
// header. The parser inserts an implicit tbody around bare rows, so tbody
// presence alone cannot locate the header.
func bodyRowCount(table *goquery.Selection) int {
	rows := table.Find("tr").Length()
	if head := table.Find("thead tr").Length(); head > 0 {
		return rows - head
	}
	if rows > 1 {
		return rows - 1
	}
	return 0
}

// ruleFallbackLinks: a weaker link-density signal than link_heavy.
func ruleFallbackLinks(ctx RuleContext) (bool, error) {
	return ctx.Stats.Links > ctx.Thresholds.Get(ThresholdFallbackMinLinks, 30) &&
		ctx.Stats.Images <= ctx.Thresholds.Get(ThresholdFallbackMaxImages, 5), nil
}

// EvaluateRules runs every rule against the shared context and collects the
// per-rule outcomes. Evaluation is fail-safe: a rule error records a failed
// rule and classification continues.
func EvaluateRules(rules []Rule, ctx RuleContext) []RuleResult {
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		passed, err := rule.Fn(ctx)
		if err != nil {
			passed = false
		}
		results = append(results, RuleResult{
			Name:   rule.Name,
			Passed: passed,
			Weight: rule.Weight,
		})
	}
	return results
}

// Score sums the weights of passing rules.
func Score(results []RuleResult) int {
	total := 0
	for _, r := range results {
		if r.Passed {
			total += r.Weight
		}
	}
	return total
}
