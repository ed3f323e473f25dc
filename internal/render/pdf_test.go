package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/nexusedu/studygen/internal/notes"
)

var renderTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestPDF_ProducesValidDocument(t *testing.T) {
	data, err := PDF(sampleRecord(), renderTime)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Error("output missing PDF trailer")
	}
}

func TestPDF_ContentGrowsWithTopics(t *testing.T) {
	empty, err := PDF(notes.MasterRecord{DocumentTitle: "T", Subject: "S"}, renderTime)
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}

	big := notes.MasterRecord{DocumentTitle: "T", Subject: "S"}
	for i := 0; i < 30; i++ {
		big.Topics = append(big.Topics, notes.Topic{
			Title: "Topic",
			Subtopics: []notes.Subtopic{
				{Title: "Sub", Explanation: "A reasonably long dense explanation of the material that fills several lines of the rendered page so that output size must grow.", KeyConcepts: []string{"a", "b"}},
			},
		})
	}
	full, err := PDF(big, renderTime)
	if err != nil {
		t.Fatalf("render full: %v", err)
	}

	if len(full) <= len(empty) {
		t.Errorf("expected topic content to grow the document: empty=%d full=%d", len(empty), len(full))
	}
	// 30 sections cannot fit a single content page.
	if n := bytes.Count(full, []byte("/Type /Page")); n < 3 {
		t.Errorf("expected at least 3 pages for 30 topics, found %d page objects", n)
	}
}

func TestPDF_AccentedTextDoesNotError(t *testing.T) {
	rec := notes.MasterRecord{
		DocumentTitle: "Análisis de señales",
		Subject:       "Ingeniería",
		Topics: []notes.Topic{
			{Title: "Transformación", Subtopics: []notes.Subtopic{
				{Title: "Función", Explanation: "Explicación breve con acentos: áéíóú.", KeyConcepts: []string{"señal"}},
			}},
		},
	}
	data, err := PDF(rec, renderTime)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}
