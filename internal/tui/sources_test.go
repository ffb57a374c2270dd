package tui

import (
	"strings"
	"testing"

	"secrag-tui/internal/app"
)

func citation(id int, score float64, content string) app.Citation {
	return app.Citation{ChunkID: id, Score: score, Content: content}
}

func TestFormatSourcesOneBlockPerCitation(t *testing.T) {
	out := formatSources([]app.Citation{
		citation(3, 0.721, "First chunk text."),
		citation(7, 0.544, "Second chunk text."),
	})

	blocks := strings.Split(out, sourcesSeparator)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %q", len(blocks), out)
	}
	if !strings.Contains(blocks[0], "Chunk 3") || !strings.Contains(blocks[0], "0.721") {
		t.Fatalf("first block missing id or score: %q", blocks[0])
	}
	if !strings.Contains(blocks[1], "Second chunk text.") {
		t.Fatalf("second block missing content: %q", blocks[1])
	}
}

func TestFormatSourcesIncludesCharRange(t *testing.T) {
	start, end := 120, 480
	out := formatSources([]app.Citation{{
		ChunkID: 1,
		Score:   0.5,
		Content: "body",
		Metadata: &app.CitationMeta{
			CharStart: &start,
			CharEnd:   &end,
		},
	}})
	if !strings.Contains(out, "Chars 120-480") {
		t.Fatalf("missing char range: %q", out)
	}
}

func TestSourcesPanelShowIgnoresMessagesWithoutMeta(t *testing.T) {
	var p sourcesPanel
	p.Show(app.Message{ID: "x"})
	if p.open {
		t.Fatal("panel opened for a message without citations")
	}
}

func TestSourcesPanelScrollClamps(t *testing.T) {
	p := sourcesPanel{
		open: true,
		citations: []app.Citation{
			citation(1, 0.9, "a"), citation(2, 0.8, "b"),
			citation(3, 0.7, "c"), citation(4, 0.6, "d"),
		},
	}

	p.Scroll(10, 2)
	if p.offset != 2 {
		t.Fatalf("offset = %d, want 2", p.offset)
	}
	p.Scroll(-10, 2)
	if p.offset != 0 {
		t.Fatalf("offset = %d, want 0", p.offset)
	}
	// Everything fits: no scrolling.
	p.Scroll(3, 10)
	if p.offset != 0 {
		t.Fatalf("offset = %d, want 0 when all citations fit", p.offset)
	}
}
