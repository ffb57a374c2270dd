package main

import (
	"strings"
	"testing"

	"secrag-tui/internal/app"
)

func TestFormatAnswer_WithCitations(t *testing.T) {
	out := formatAnswer(&app.AnswerResult{
		Answer: "  The model uses hybrid retrieval.  ",
		Citations: []app.Citation{
			{ChunkID: 3, Score: 0.72, Content: "retrieval details"},
			{ChunkID: 7, Score: 0.31, Content: "more context"},
		},
	})

	if !strings.HasPrefix(out, "The model uses hybrid retrieval.") {
		t.Fatalf("answer not trimmed: %q", out)
	}
	if !strings.Contains(out, "Confidence: High") {
		t.Fatalf("missing confidence: %q", out)
	}
	if !strings.Contains(out, "chunk 3") || !strings.Contains(out, "0.720") {
		t.Fatalf("missing citation line: %q", out)
	}
}

func TestFormatAnswer_NoCitationsIsLow(t *testing.T) {
	out := formatAnswer(&app.AnswerResult{Answer: "No idea."})
	if !strings.Contains(out, "Confidence: Low") {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(out, "Sources:") {
		t.Fatalf("unexpected sources section: %q", out)
	}
}
