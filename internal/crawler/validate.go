// internal/crawler/validate.go
package crawler

import (
	"regexp"
	"strings"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// yearPattern accepts a plain four-digit year. Values arriving with noise
// around the digits are salvaged before rejection.
var yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// ValidateRecord checks a record before it is written. Title is required;
// the year is reduced to a four-digit value or dropped; the synopsis is
// truncated to its cap. The input is not mutated.
func ValidateRecord(record types.MovieRecord) (types.MovieRecord, error) {
	record.Title = strings.TrimSpace(record.Title)
	if record.Title == "" {
		return types.MovieRecord{}, utils.NewError(utils.ErrCodeInvalidRecord, "record has no title")
	}

	record.Year = normalizeYear(record.Year)

	if runes := []rune(record.Synopsis); len(runes) > types.MaxSynopsisLength {
		record.Synopsis = string(runes[:types.MaxSynopsisLength])
	}

	return record, nil
}

// normalizeYear extracts a plausible release year, or returns empty when
// none is present.
func normalizeYear(year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	return yearPattern.FindString(year)
}
