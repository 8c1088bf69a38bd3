package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/MovieScrapexter/pkg/types"
)

func sampleRecords() []types.MovieRecord {
	return []types.MovieRecord{
		{
			Title:     "First Movie",
			Year:      "2021",
			Director:  "Jane Roe",
			SourceURL: "https://example.com/movies/first/",
			ScrapedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Title: "Second Movie",
			Year:  "2023",
		},
	}
}

func TestJSONWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "movies.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := writer.Write(context.Background(), sampleRecords()[:1]); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := writer.Write(context.Background(), sampleRecords()[1:]); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}

	var loaded []types.MovieRecord
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].Title != "First Movie" || loaded[1].Title != "Second Movie" {
		t.Errorf("unexpected records: %+v", loaded)
	}
	if loaded[0].SourceURL != "https://example.com/movies/first/" {
		t.Errorf("source URL lost: %+v", loaded[0])
	}
}

func TestJSONWriterEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	var loaded []types.MovieRecord
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("empty run must still produce valid JSON: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty array, got %d records", len(loaded))
	}
}

func TestJSONWriterWriteAfterClose(t *testing.T) {
	writer, err := NewJSONWriter(filepath.Join(t.TempDir(), "movies.json"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	writer.Close()

	if err := writer.Write(context.Background(), sampleRecords()); err == nil {
		t.Error("write after close must fail")
	}
}

func TestJSONWriterRequiresPath(t *testing.T) {
	if _, err := NewJSONWriter(""); err == nil {
		t.Error("empty path must fail")
	}
}
