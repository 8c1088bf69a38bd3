package extract

import (
	"strings"
	"testing"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

func TestNarrativeExtractsLabeledParagraphs(t *testing.T) {
	html := `<html><body><div class="entry-content">
		<p>Director: John Doe</p>
		<p>Genre: Action, Drama</p>
		<p>Cast: Actor One, Actor Two</p>
	</div></body></html>`

	extractor := NewNarrativeExtractor(nil, nil, nil)
	fields, err := extractor.Extract(parseDoc(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	want := map[string]string{
		types.FieldDirector: "John Doe",
		types.FieldGenre:    "Action, Drama",
		types.FieldCast:     "Actor One, Actor Two",
	}
	for field, value := range want {
		if fields[field] != value {
			t.Errorf("field %s = %q, want %q", field, fields[field], value)
		}
	}
}

func TestNarrativeFirstMatchWins(t *testing.T) {
	html := `<html><body><div class="entry-content">
		<p>Director: First Director</p>
		<p>Director: Second Director</p>
	</div></body></html>`

	extractor := NewNarrativeExtractor(nil, nil, nil)
	fields, err := extractor.Extract(parseDoc(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if fields[types.FieldDirector] != "First Director" {
		t.Errorf("expected first confident match to win, got %q", fields[types.FieldDirector])
	}
}

func TestNarrativeLengthWindow(t *testing.T) {
	long := "Synopsis: " + strings.Repeat("a very long plot description ", 20)
	html := `<html><body><div class="entry-content">
		<p>abc</p>
		<p>` + long + `</p>
		<p>Director: John Doe</p>
	</div></body></html>`

	extractor := NewNarrativeExtractor(nil, nil, nil)
	fields, err := extractor.Extract(parseDoc(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if _, ok := fields[types.FieldSynopsis]; ok {
		t.Error("paragraphs over 200 chars must be skipped")
	}
	if fields[types.FieldDirector] != "John Doe" {
		t.Error("paragraphs inside the window must still be processed")
	}
}

func TestNarrativeLengthWindowCountsRunes(t *testing.T) {
	// 101 runes but ~280 bytes: a label:value paragraph in a 3-byte-per-rune
	// script must stay inside the window.
	value := strings.Repeat("မ", 90)
	html := `<html><body><div class="entry-content">
		<p>Director - ` + value + `</p>
	</div></body></html>`

	extractor := NewNarrativeExtractor(nil, nil, nil)
	fields, err := extractor.Extract(parseDoc(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if fields[types.FieldDirector] != value {
		t.Errorf("multi-byte paragraph inside the rune window must extract, got %v", fields)
	}
}

func TestNarrativeUnmatchedParagraphDoesNotAbort(t *testing.T) {
	html := `<html><body><div class="entry-content">
		<p>completely unrelated ramble about weather</p>
		<p>Genre: Horror</p>
	</div></body></html>`

	extractor := NewNarrativeExtractor(nil, nil, nil)
	fields, err := extractor.Extract(parseDoc(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if fields[types.FieldGenre] != "Horror" {
		t.Errorf("scan must continue past unmatched paragraphs, got %v", fields)
	}
}

func TestNarrativeFallsBackToAllParagraphs(t *testing.T) {
	// No entry-content container: the scan covers all paragraphs.
	html := `<html><body><p>Director: Jane Roe</p></body></html>`

	extractor := NewNarrativeExtractor(nil, nil, nil)
	fields, err := extractor.Extract(parseDoc(t, html))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if fields[types.FieldDirector] != "Jane Roe" {
		t.Errorf("expected container fallback, got %v", fields)
	}
}

func TestMergeFieldsStructuralWins(t *testing.T) {
	structural := map[string]string{
		types.FieldTitle: "Markup Title",
		types.FieldYear:  "2020",
	}
	narrative := map[string]string{
		types.FieldTitle:    "Paragraph Title",
		types.FieldDirector: "John Doe",
	}

	merged := MergeFields(structural, narrative)

	if merged[types.FieldTitle] != "Markup Title" {
		t.Errorf("structural value must win on collision, got %q", merged[types.FieldTitle])
	}
	if merged[types.FieldDirector] != "John Doe" {
		t.Error("narrative must fill unset fields")
	}
	if merged[types.FieldYear] != "2020" {
		t.Error("structural-only fields must survive the merge")
	}
}

func TestNarrativeNilDocument(t *testing.T) {
	extractor := NewNarrativeExtractor(nil, nil, nil)
	if _, err := extractor.Extract(nil); err == nil {
		t.Error("nil document must surface a typed error")
	}
}
