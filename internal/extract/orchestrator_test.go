package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

func TestHandlePageDetail(t *testing.T) {
	html := `<html><body>
		<h1 class="entry-title">The Test Movie</h1>
		<span class="ytps">2023</span>
		<div class="entry-content">
			<img src="/poster.jpg">
			<p>Director: John Doe</p>
			<p>Genre: Action, Drama</p>
			<p>Cast: Actor One, Actor Two</p>
		</div>
		<iframe src="https://stream.example.com/embed/42"></iframe>
	</body></html>`

	orchestrator := NewOrchestrator(nil, nil, nil, nil, nil, nil, nil)
	result, err := orchestrator.HandlePage(context.Background(), html, "https://example.com/movies/the-test-movie/")
	if err != nil {
		t.Fatalf("handle page failed: %v", err)
	}

	if result.Type != types.PageDetail {
		t.Fatalf("expected detail page, got %s", result.TypeName)
	}
	if result.Item == nil {
		t.Fatal("detail result must carry an item")
	}

	item := *result.Item
	if item.Title != "The Test Movie" {
		t.Errorf("title = %q", item.Title)
	}
	if item.Year != "2023" {
		t.Errorf("year = %q", item.Year)
	}
	if item.Director != "John Doe" {
		t.Errorf("director = %q", item.Director)
	}
	if item.Genre != "Action, Drama" {
		t.Errorf("genre = %q", item.Genre)
	}
	if item.Cast != "Actor One, Actor Two" {
		t.Errorf("cast = %q", item.Cast)
	}
	if item.PosterURL != "/poster.jpg" {
		t.Errorf("poster = %q", item.PosterURL)
	}
	if item.StreamingLink != "https://stream.example.com/embed/42" {
		t.Errorf("streaming link = %q", item.StreamingLink)
	}
}

func TestHandlePageCatalogue(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, `<div class="item"><a href="/movies/title-%d/">Movie %d</a></div>`, i, i)
	}
	b.WriteString(`<table>
		<thead><tr><th>Title</th></tr></thead>
		<tbody>
			<tr><td>Movie A</td></tr>
			<tr><td>Movie B</td></tr>
			<tr><td>Movie C</td></tr>
		</tbody>
	</table>`)
	b.WriteString(`<a class="next page-numbers" href="/movies/page/2/">Next</a>`)
	b.WriteString("</body></html>")

	orchestrator := NewOrchestrator(nil, nil, nil, nil, nil, nil, nil)
	result, err := orchestrator.HandlePage(context.Background(), b.String(), "https://example.com/movies/")
	if err != nil {
		t.Fatalf("handle page failed: %v", err)
	}

	if result.Type != types.PageCatalogue {
		t.Fatalf("expected catalogue page, got %s", result.TypeName)
	}
	// 60 listing anchors plus the pagination anchor; the harvester applies
	// the same validity predicate to every anchor on the page.
	if len(result.Links) != 61 {
		t.Errorf("expected 61 harvested links, got %d", len(result.Links))
	}
	found := false
	for _, link := range result.Links {
		if link == "https://example.com/movies/title-7/" {
			found = true
			break
		}
	}
	if !found {
		t.Error("harvested links must be resolved against the page URL")
	}
	if result.NextPage != "/movies/page/2/" {
		t.Errorf("next page cue = %q", result.NextPage)
	}
	if result.Item != nil {
		t.Error("catalogue result must not carry an item")
	}
}

func TestHandlePageUnknownWithFallbackBlock(t *testing.T) {
	// Neither catalogue-dense nor player-bearing, but one block looks like a
	// single listing. The block is re-run through detail extraction.
	html := `<html><body>
		<section>
			<img src="/block-poster.jpg">
			<a href="/movies/block-movie/">Block Movie page</a>
			<h1 class="entry-title">Block Movie</h1>
			<p>Director: Jane Roe</p>
		</section>
	</body></html>`

	orchestrator := NewOrchestrator(nil, nil, nil, nil, nil, nil, nil)
	result, err := orchestrator.HandlePage(context.Background(), html, "https://example.com/weird/")
	if err != nil {
		t.Fatalf("handle page failed: %v", err)
	}

	if result.Type != types.PageDetail {
		t.Fatalf("expected fallback detail, got %s", result.TypeName)
	}
	if result.Item == nil || result.Item.Title != "Block Movie" {
		t.Fatalf("unexpected fallback item: %+v", result.Item)
	}
	if result.Item.Director != "Jane Roe" {
		t.Errorf("director = %q", result.Item.Director)
	}
}

func TestHandlePageUnknownWithoutCandidates(t *testing.T) {
	html := `<html><body><p>nothing classifiable here</p></body></html>`

	orchestrator := NewOrchestrator(nil, nil, nil, nil, nil, nil, nil)
	result, err := orchestrator.HandlePage(context.Background(), html, "https://example.com/empty/")
	if err != nil {
		t.Fatalf("ambiguous content must not error: %v", err)
	}

	if result.Type != types.PageUnknown {
		t.Fatalf("expected unknown page, got %s", result.TypeName)
	}
	if result.Error == "" {
		t.Error("unknown result must carry a reason")
	}
	if result.FallbackLinks == nil || len(result.FallbackLinks) != 0 {
		t.Errorf("fallback links must be present and empty, got %v", result.FallbackLinks)
	}
}

func TestHandlePageDetailPrecedence(t *testing.T) {
	// A player iframe with few links is a detail page even when a large
	// table would otherwise read as a catalogue signal.
	var rows strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&rows, "<tr><td>Movie %d</td><td>200%d</td></tr>", i, i)
	}
	html := `<html><body>
		<h1 class="entry-title">Feature Film</h1>
		<iframe src="https://stream.example.com/embed/9"></iframe>
		<table><thead><tr><th>Title</th><th>Year</th></tr></thead><tbody>` + rows.String() + `</tbody></table>
	</body></html>`

	orchestrator := NewOrchestrator(nil, nil, nil, nil, nil, nil, nil)
	result, err := orchestrator.HandlePage(context.Background(), html, "https://example.com/movies/feature/")
	if err != nil {
		t.Fatalf("handle page failed: %v", err)
	}

	if result.Type != types.PageDetail {
		t.Fatalf("player-bearing page must classify as detail, got %s", result.TypeName)
	}
	if result.Item == nil || result.Item.Title != "Feature Film" {
		t.Errorf("unexpected item: %+v", result.Item)
	}
}

func TestExtractTableRecords(t *testing.T) {
	html := `<html><body>
		<h1 class="entry-title">Main Movie</h1>
		<table>
			<thead><tr><th>Title</th><th>Year</th></tr></thead>
			<tbody>
				<tr><td>Related Movie 1</td><td>2019</td></tr>
				<tr><td>Related Movie 2</td><td>2021</td></tr>
			</tbody>
		</table>
	</body></html>`

	orchestrator := NewOrchestrator(nil, nil, nil, nil, nil, nil, nil)
	records, err := orchestrator.ExtractTableRecords(html)
	if err != nil {
		t.Fatalf("table extraction failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 auxiliary records, got %d", len(records))
	}
	if records[0].Title != "Related Movie 1" || records[1].Title != "Related Movie 2" {
		t.Errorf("unexpected records: %+v", records)
	}
}
