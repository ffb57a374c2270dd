package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit       key.Binding
	Enter      key.Binding
	Clear      key.Binding
	FocusNext  key.Binding
	NextMode   key.Binding
	Summarize  key.Binding
	Upload     key.Binding
	Refresh    key.Binding
	Delete     key.Binding
	Sources    key.Binding
	CopySrc    key.Binding
	DarkMode   key.Binding
	ToggleHelp key.Binding
	Dismiss    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send question"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear chat"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "retrieval mode"),
		),
		Summarize: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "summarize document"),
		),
		Upload: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "upload pdf"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh documents"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete selected"),
		),
		Sources: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "sources panel"),
		),
		CopySrc: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy sources"),
		),
		DarkMode: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "dark mode"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

type helpModel struct {
	keys  keyMap
	width int
}

func newHelpModel() helpModel {
	return helpModel{keys: defaultKeyMap(), width: 80}
}

func (m *helpModel) SetWidth(width int) { m.width = width }

func (m helpModel) View(t Theme) string {
	var b strings.Builder

	b.WriteString(t.ModalTitle.Render("secrag help"))
	b.WriteString("\n\n")

	b.WriteString(t.PaneTitle.Render("conversation"))
	b.WriteString("\n")
	rows := []key.Binding{m.keys.Enter, m.keys.Summarize, m.keys.Clear, m.keys.Sources, m.keys.CopySrc}
	for _, k := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n", t.ModalAction.Render(k.Help().Key), k.Help().Desc))
	}
	b.WriteString("\n")

	b.WriteString(t.PaneTitle.Render("documents"))
	b.WriteString("\n")
	rows = []key.Binding{m.keys.Upload, m.keys.Refresh, m.keys.Delete}
	for _, k := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n", t.ModalAction.Render(k.Help().Key), k.Help().Desc))
	}
	b.WriteString("  ")
	b.WriteString(t.Footer.Render("up/down pick a document when the list is focused, 1-9 insert a sample question"))
	b.WriteString("\n\n")

	b.WriteString(t.PaneTitle.Render("view"))
	b.WriteString("\n")
	rows = []key.Binding{m.keys.FocusNext, m.keys.NextMode, m.keys.DarkMode, m.keys.Quit}
	for _, k := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n", t.ModalAction.Render(k.Help().Key), k.Help().Desc))
	}

	b.WriteString("\n")
	b.WriteString(t.Footer.Render("esc closes this help"))
	return b.String()
}
