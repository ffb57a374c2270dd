package tui

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdCodeBlockRe  = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	mdHeadingRe    = regexp.MustCompile(`<h[1-6][^>]*>(.*?)</h[1-6]>`)
	mdStrongRe     = regexp.MustCompile(`<strong>(.*?)</strong>`)
	mdEmRe         = regexp.MustCompile(`<em>(.*?)</em>`)
	mdInlineCodeRe = regexp.MustCompile(`<code>([^<]+)</code>`)
	mdListItemRe   = regexp.MustCompile(`<li>(.*?)</li>`)
	mdTagRe        = regexp.MustCompile(`<[^>]+>`)
	mdBlankRunsRe  = regexp.MustCompile(`\n{3,}`)
)

// MarkdownRenderer turns the backend's markdown answers into styled
// terminal text.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	formatter chroma.Formatter
	style     *chroma.Style

	heading lipgloss.Style
	strong  lipgloss.Style
	em      lipgloss.Style
	code    lipgloss.Style
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("friendly"),
		heading:   lipgloss.NewStyle().Bold(true),
		strong:    lipgloss.NewStyle().Bold(true),
		em:        lipgloss.NewStyle().Italic(true),
		code:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"}),
	}
}

// Render converts markdown to terminal output wrapped at width. On any
// conversion failure the raw text is returned untouched.
func (r *MarkdownRenderer) Render(content string, width int) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	out := buf.String()

	out = mdCodeBlockRe.ReplaceAllStringFunc(out, func(block string) string {
		parts := mdCodeBlockRe.FindStringSubmatch(block)
		return "\n" + r.highlight(html.UnescapeString(parts[2]), parts[1]) + "\n"
	})
	out = mdHeadingRe.ReplaceAllStringFunc(out, func(h string) string {
		inner := mdTagRe.ReplaceAllString(h, "")
		return "\n" + r.heading.Render(inner) + "\n"
	})
	out = mdStrongRe.ReplaceAllStringFunc(out, func(s string) string {
		return r.strong.Render(mdStrongRe.FindStringSubmatch(s)[1])
	})
	out = mdEmRe.ReplaceAllStringFunc(out, func(s string) string {
		return r.em.Render(mdEmRe.FindStringSubmatch(s)[1])
	})
	out = mdInlineCodeRe.ReplaceAllStringFunc(out, func(s string) string {
		return r.code.Render(html.UnescapeString(mdInlineCodeRe.FindStringSubmatch(s)[1]))
	})
	out = mdListItemRe.ReplaceAllString(out, "  • $1\n")
	out = strings.ReplaceAll(out, "<br>", "\n")
	out = strings.ReplaceAll(out, "<br />", "\n")
	out = mdTagRe.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = mdBlankRunsRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)

	if width > 0 {
		out = lipgloss.NewStyle().Width(width).Render(out)
	}
	return out
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	if err := r.formatter.Format(&b, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(b.String(), "\n")
}
