// internal/extract/tabular.go
package extract

import (
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// TableExtractor detects header rows in tables, maps headers to canonical
// fields via fuzzy matching, and emits one record per data row. The
// header-to-field mapping is cached per distinct header tuple so repeated
// tables sharing a header row (common with boilerplate listings) do not
// re-run fuzzy matching.
type TableExtractor struct {
	matcher *Matcher
	logger  utils.Logger

	cacheMu     sync.RWMutex
	headerCache map[string]map[string]string

	countMu        sync.Mutex
	recordsEmitted int
}

// NewTableExtractor creates a table extractor.
func NewTableExtractor(matcher *Matcher, logger utils.Logger) *TableExtractor {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &TableExtractor{
		matcher:     matcher,
		logger:      logger,
		headerCache: make(map[string]map[string]string),
	}
}

// Extract emits zero or more records from one table. Tables without any
// identifiable header yield nothing; that is not an error. Rows are zipped
// against the header mapping by column position, truncating the longer
// side, and a row with no non-empty mapped value yields no record.
func (e *TableExtractor) Extract(table *goquery.Selection) ([]types.MovieRecord, error) {
	if table == nil {
		return nil, utils.ErrNilDocument
	}

	headers := tableHeaders(table)
	if len(headers) == 0 {
		e.logger.Debug("no headers found in table, skipping extraction")
		return nil, nil
	}

	headerMap := e.mapHeaders(headers)

	var records []types.MovieRecord
	tableRows(table).Each(func(_ int, row *goquery.Selection) {
		fields := make(map[string]string)
		row.Find("td").Each(func(col int, cell *goquery.Selection) {
			if col >= len(headers) {
				return
			}
			field := headerMap[headers[col]]
			if field == "" {
				return
			}
			if text := normalizeSpace(cell.Text()); text != "" {
				fields[field] = text
			}
		})

		if len(fields) > 0 {
			records = append(records, types.RecordFromFields(fields))
		}
	})

	if len(records) > 0 {
		e.countMu.Lock()
		e.recordsEmitted += len(records)
		e.countMu.Unlock()
	}
	return records, nil
}

// ExtractAll runs Extract over every table in the document.
func (e *TableExtractor) ExtractAll(doc *goquery.Document) ([]types.MovieRecord, error) {
	if doc == nil {
		return nil, utils.ErrNilDocument
	}

	var all []types.MovieRecord
	var firstErr error
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		records, err := e.Extract(table)
		if err != nil && firstErr == nil {
			firstErr = err
			return
		}
		all = append(all, records...)
	})
	return all, firstErr
}

// RecordsEmitted reports the running count of records produced, for
// diagnostics only.
func (e *TableExtractor) RecordsEmitted() int {
	e.countMu.Lock()
	defer e.countMu.Unlock()
	return e.recordsEmitted
}

// mapHeaders maps each header text to a canonical field, dropping headers
// that match no field confidently. The result is cached per header tuple.
func (e *TableExtractor) mapHeaders(headers []string) map[string]string {
	key := headerCacheKey(headers)

	e.cacheMu.RLock()
	if cached, ok := e.headerCache[key]; ok {
		e.cacheMu.RUnlock()
		return cached
	}
	e.cacheMu.RUnlock()

	mapping := make(map[string]string, len(headers))
	for _, header := range headers {
		if header == "" {
			continue
		}
		if field, _ := e.matcher.Match(header); field != "" {
			mapping[header] = field
		}
	}

	e.cacheMu.Lock()
	e.headerCache[key] = mapping
	e.cacheMu.Unlock()

	return mapping
}

// headerCacheKey builds a deterministic key from the lowercased header
// set.
func headerCacheKey(headers []string) string {
	lowered := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			lowered = append(lowered, strings.ToLower(h))
		}
	}
	sort.Strings(lowered)
	return strings.Join(lowered, "\x00")
}

// tableHeaders reads header cell texts from an explicit thead, falling
// back to the table's first row.
func tableHeaders(table *goquery.Selection) []string {
	var headers []string
	table.Find("thead th, thead td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, normalizeSpace(cell.Text()))
	})
	if len(headers) == 0 {
		table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, normalizeSpace(cell.Text()))
		})
	}

	// A header row of entirely empty cells counts as no headers.
	for _, h := range headers {
		if h != "" {
			return headers
		}
	}
	return nil
}

// tableRows returns the data rows. With an explicit thead the body rows
// are everything outside it; otherwise the first row served as the header
// and is skipped. The parser inserts an implicit tbody around bare rows,
// so tbody presence alone says nothing about where the header lives.
func tableRows(table *goquery.Selection) *goquery.Selection {
	if table.Find("thead").Length() > 0 {
		return table.Find("tr").NotSelection(table.Find("thead tr"))
	}
	return table.Find("tr").Slice(1, goquery.ToEnd)
}
