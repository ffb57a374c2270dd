package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"secrag-tui/internal/app"
)

const sourcesSeparator = "----------------------------------------"

// sourcesPanel shows the citation set of whichever message the user last
// invoked sources on. Only one set is visible at a time; opening another
// message's sources replaces it.
type sourcesPanel struct {
	open      bool
	messageID string
	document  string
	citations []app.Citation
	offset    int
}

func (p *sourcesPanel) Show(msg app.Message) {
	if msg.Meta == nil {
		return
	}
	p.open = true
	p.messageID = msg.ID
	p.document = msg.Meta.Document
	p.citations = msg.Meta.Citations
	p.offset = 0
}

func (p *sourcesPanel) Close() {
	*p = sourcesPanel{}
}

func (p *sourcesPanel) Scroll(delta, visible int) {
	p.offset += delta
	maxOff := len(p.citations) - visible
	if maxOff < 0 {
		maxOff = 0
	}
	if p.offset > maxOff {
		p.offset = maxOff
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// Copy serializes the displayed citations and hands them to the system
// clipboard. Caller decides how to surface failures.
func (p *sourcesPanel) Copy() error {
	if !p.open {
		return nil
	}
	return clipboard.WriteAll(formatSources(p.citations))
}

// formatSources renders one block per citation: chunk id, score, preview,
// joined by a visible separator.
func formatSources(citations []app.Citation) string {
	blocks := make([]string, 0, len(citations))
	for _, c := range citations {
		var b strings.Builder
		fmt.Fprintf(&b, "Chunk %d | Score %.3f", c.ChunkID, c.Score)
		if c.Metadata != nil && c.Metadata.CharStart != nil && c.Metadata.CharEnd != nil {
			fmt.Fprintf(&b, " | Chars %d-%d", *c.Metadata.CharStart, *c.Metadata.CharEnd)
		}
		if preview := strings.TrimSpace(c.Preview(240)); preview != "" {
			b.WriteString("\n")
			b.WriteString(preview)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n"+sourcesSeparator+"\n")
}
