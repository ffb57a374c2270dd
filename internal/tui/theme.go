package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"secrag-tui/internal/app"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	// Colors
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Warn     lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	// Styles
	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	PaneTitleF  lipgloss.Style
	PaneDivider lipgloss.Style
	Footer      lipgloss.Style
	InputBox    lipgloss.Style
	InputBoxF   lipgloss.Style
	Spinner     lipgloss.Style

	RoleYou lipgloss.Style
	RoleAI  lipgloss.Style
	RoleSys lipgloss.Style
	RoleErr lipgloss.Style

	ConfHigh   lipgloss.Style
	ConfMedium lipgloss.Style
	ConfLow    lipgloss.Style

	DocItem    lipgloss.Style
	DocItemSel lipgloss.Style
	Sample     lipgloss.Style
	Toast      lipgloss.Style

	ModalBox    lipgloss.Style
	ModalTitle  lipgloss.Style
	ModalErr    lipgloss.Style
	ModalAction lipgloss.Style
}

// ThemeFor picks the palette for the persisted dark-mode flag.
func ThemeFor(dark bool) Theme {
	if os.Getenv("SECRAG_NO_COLOR") == "1" {
		return newNoColorTheme()
	}
	if dark {
		return newMidnightTheme()
	}
	return newPorcelainTheme()
}

// ConfidenceStyle maps the deriver's tone to this theme's styles.
func (t Theme) ConfidenceStyle(tone app.ConfidenceTone) lipgloss.Style {
	switch tone {
	case app.ToneGood:
		return t.ConfHigh
	case app.ToneWarn:
		return t.ConfMedium
	default:
		return t.ConfLow
	}
}

func (t *Theme) buildStyles() {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.PaneTitleF = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.PaneDivider = lipgloss.NewStyle().Foreground(t.Border)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleAI = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.RoleSys = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.RoleErr = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.ConfHigh = lipgloss.NewStyle().Foreground(t.Success)
	t.ConfMedium = lipgloss.NewStyle().Foreground(t.Warn)
	t.ConfLow = lipgloss.NewStyle().Foreground(t.Error)

	t.DocItem = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.DocItemSel = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Sample = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.Toast = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Warn).Foreground(t.TextPrimary).Padding(0, 1)

	t.ModalBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderHi).Padding(1, 2)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.ModalErr = lipgloss.NewStyle().Foreground(t.Error)
	t.ModalAction = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
}

func newPorcelainTheme() Theme {
	t := Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#9aa0a6"},

		Accent:   lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Success:  lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:     lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:    lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	}
	t.buildStyles()
	return t
}

func newMidnightTheme() Theme {
	t := Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#eaeaea", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#b7b7b7", Dark: "#b7b7b7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#8d8d8d", Dark: "#8d8d8d"},

		Accent:   lipgloss.AdaptiveColor{Light: "#5cc8ff", Dark: "#5cc8ff"},
		Success:  lipgloss.AdaptiveColor{Light: "#46d1b7", Dark: "#46d1b7"},
		Warn:     lipgloss.AdaptiveColor{Light: "#f4b27d", Dark: "#f4b27d"},
		Error:    lipgloss.AdaptiveColor{Light: "#ff7a7a", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#2a2a2a", Dark: "#2a2a2a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#7aa2ff", Dark: "#7aa2ff"},
	}
	t.buildStyles()
	return t
}

func newNoColorTheme() Theme {
	t := Theme{
		Name:        "no-color",
		TextPrimary: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#bbbbbb"},
		Border:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
	}
	t.Accent = t.TextPrimary
	t.Success = t.TextPrimary
	t.Warn = t.TextPrimary
	t.Error = t.TextPrimary
	t.buildStyles()
	return t
}
