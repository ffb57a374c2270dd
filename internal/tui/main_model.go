package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"secrag-tui/internal/app"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusDocs
	focusChat
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayHelp
	overlayDeleteConfirm
	overlayUpload
)

type (
	docsMsg struct {
		docs        []string
		selectFirst bool
		err         error
	}
	uploadMsg struct {
		res *app.UploadResult
		err error
	}
	answerMsg struct {
		doc string
		res *app.AnswerResult
		err error
	}
	summaryMsg struct {
		doc string
		res *app.SummarizeResult
		err error
	}
	samplesMsg struct {
		gen       int
		questions []string
		err       error
	}
	deleteMsg struct {
		doc string
		res *app.DeleteResult
		err error
	}
	healthMsg struct{ err error }
	spinMsg   struct{}
	toastMsg  struct{}
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type Model struct {
	app   *app.Application
	theme Theme
	help  helpModel

	width  int
	height int
	ready  bool

	focus   focusArea
	overlay overlayKind

	input       textarea.Model
	uploadInput textinput.Model
	chatVP      viewport.Model

	sources  sourcesPanel
	markdown *MarkdownRenderer

	retrievalMode string
	backend       string

	docCursor  int
	spinnerPos int

	// A refresh requested while one is in flight is deferred, not dropped;
	// selectOnRefresh names a document to select once a snapshot lists it.
	refreshQueued   bool
	selectOnRefresh string
}

func New(application *app.Application) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a question…"
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.CharLimit = 1024

	return &Model{
		app:           application,
		theme:         ThemeFor(application.Prefs.DarkMode),
		help:          newHelpModel(),
		focus:         focusInput,
		input:         ta,
		uploadInput:   ti,
		markdown:      NewMarkdownRenderer(),
		retrievalMode: application.Config.RetrievalMode,
		backend:       "Checking…",
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.healthCmd(),
		m.startRefresh(true),
	)
}

// Commands. Each wraps one gateway call; results come back as typed
// messages on the event loop, which is the only place state changes.

func (m *Model) healthCmd() tea.Cmd {
	c := m.app.Client
	return func() tea.Msg {
		return healthMsg{err: c.Health(context.Background())}
	}
}

func (m *Model) refreshDocsCmd(selectFirst bool) tea.Cmd {
	c := m.app.Client
	return func() tea.Msg {
		docs, err := c.ListDocs(context.Background())
		return docsMsg{docs: docs, selectFirst: selectFirst, err: err}
	}
}

func (m *Model) askCmd(doc, query string) tea.Cmd {
	c := m.app.Client
	req := app.AnswerRequest{
		Filename: doc,
		Query:    query,
		TopK:     m.app.Config.TopK,
		Mode:     m.retrievalMode,
		Alpha:    m.app.Config.Alpha,
	}
	return func() tea.Msg {
		res, err := c.Answer(context.Background(), req)
		return answerMsg{doc: doc, res: res, err: err}
	}
}

func (m *Model) summarizeCmd(doc string) tea.Cmd {
	c := m.app.Client
	req := app.SummarizeRequest{
		Filename:        doc,
		IntroChunks:     m.app.Config.IntroChunks,
		TopK:            m.app.Config.TopK,
		MaxOutputTokens: m.app.Config.MaxOutputTokens,
		Mode:            m.retrievalMode,
		Alpha:           m.app.Config.Alpha,
	}
	return func() tea.Msg {
		res, err := c.Summarize(context.Background(), req)
		return summaryMsg{doc: doc, res: res, err: err}
	}
}

func (m *Model) samplesCmd(doc string, gen int) tea.Cmd {
	c := m.app.Client
	req := app.SampleQuestionsRequest{
		Filename:        doc,
		IntroChunks:     m.app.Config.IntroChunks,
		TopK:            m.app.Config.TopK,
		MaxOutputTokens: m.app.Config.MaxOutputTokens,
	}
	return func() tea.Msg {
		qs, err := c.SampleQuestions(context.Background(), req)
		return samplesMsg{gen: gen, questions: qs, err: err}
	}
}

func (m *Model) uploadCmd(name string, data []byte) tea.Cmd {
	c := m.app.Client
	return func() tea.Msg {
		res, err := c.Upload(context.Background(), name, data)
		return uploadMsg{res: res, err: err}
	}
}

func (m *Model) deleteCmd(doc string) tea.Cmd {
	c := m.app.Client
	return func() tea.Msg {
		res, err := c.DeleteDocument(context.Background(), doc)
		return deleteMsg{doc: doc, res: res, err: err}
	}
}

func (m *Model) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

func (m *Model) toastTick() tea.Cmd {
	at, ok := m.app.Toasts.NextExpiry()
	if !ok {
		return nil
	}
	d := time.Until(at)
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return toastMsg{} })
}

func (m *Model) pushToast(text string) tea.Cmd {
	m.app.Toasts.Push(text)
	return m.toastTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(m.width)
		l := m.computeLayout()
		if !m.ready {
			m.chatVP = viewport.New(l.ChatW-2, l.MainH-2)
			m.ready = true
		} else {
			m.chatVP.Width = l.ChatW - 2
			m.chatVP.Height = l.MainH - 2
		}
		m.input.SetWidth(maxInt(10, l.InputW))
		m.refreshChat(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case healthMsg:
		if msg.err != nil {
			m.backend = "Backend unreachable"
		} else {
			m.backend = "Connected"
		}
		return m, nil

	case docsMsg:
		return m.handleDocs(msg)

	case uploadMsg:
		m.app.Session.ResolveUpload(msg.res, msg.err)
		m.refreshChat(true)
		if msg.err != nil {
			return m, nil
		}
		// A stale snapshot taken before the upload may land first and clear
		// the fresh selection; remember the name until a list includes it.
		m.selectOnRefresh = msg.res.Filename
		return m, tea.Batch(m.startRefresh(false), m.startSamples())

	case answerMsg:
		m.app.Session.ResolveAsk(msg.doc, msg.res, msg.err)
		m.refreshChat(true)
		return m, nil

	case summaryMsg:
		m.app.Session.ResolveSummarize(msg.doc, msg.res, msg.err)
		m.refreshChat(true)
		return m, nil

	case samplesMsg:
		stale := m.app.Session.ResolveSamples(msg.gen, msg.questions, msg.err)
		if stale {
			return m, m.startSamples()
		}
		if msg.err != nil {
			return m, m.pushToast(errText(msg.err))
		}
		return m, nil

	case deleteMsg:
		m.app.Session.ResolveDelete(msg.doc, msg.res, msg.err)
		if msg.err != nil {
			// The confirm dialog stays up showing LastError.
			return m, nil
		}
		m.overlay = overlayNone
		m.refreshChat(true)
		return m, m.startRefresh(false)

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.anyBusy() {
			return m, m.spinTick()
		}
		return m, nil

	case toastMsg:
		m.app.Toasts.Expire(time.Now())
		return m, m.toastTick()
	}

	return m, m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.overlay == overlayUpload {
		m.uploadInput, cmd = m.uploadInput.Update(msg)
		return cmd
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.chatVP, cmd = m.chatVP.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *Model) handleDocs(msg docsMsg) (tea.Model, tea.Cmd) {
	op := m.app.Session.Op(app.OpList)
	if msg.err != nil {
		// Silent degradation: prior registry state stays intact.
		op.Fail(errText(msg.err))
		return m, tea.Batch(m.pushToast("Couldn't refresh documents."), m.nextQueuedRefresh())
	}
	op.Succeed()
	changed := m.app.Session.SetDocuments(msg.docs, msg.selectFirst)
	if m.selectOnRefresh != "" {
		for _, d := range m.app.Session.Documents() {
			if d != m.selectOnRefresh {
				continue
			}
			if m.app.Session.Selected() != d {
				m.app.Session.Select(d)
				changed = true
			}
			m.selectOnRefresh = ""
			break
		}
	}
	m.clampDocCursor()

	var cmds []tea.Cmd
	if changed {
		cmds = append(cmds, m.startSamples())
	}
	if cmd := m.nextQueuedRefresh(); cmd != nil {
		cmds = append(cmds, cmd)
	} else {
		// No further snapshot is coming; stop waiting for the name.
		m.selectOnRefresh = ""
	}
	return m, tea.Batch(cmds...)
}

// startRefresh issues a registry refresh. While one is already in flight
// the request is queued and re-issued when that snapshot lands, so the
// registry always catches up with server truth.
func (m *Model) startRefresh(selectFirst bool) tea.Cmd {
	if !m.app.Session.Op(app.OpList).Begin() {
		m.refreshQueued = true
		return nil
	}
	return tea.Batch(m.refreshDocsCmd(selectFirst), m.spinTick())
}

func (m *Model) nextQueuedRefresh() tea.Cmd {
	if !m.refreshQueued {
		return nil
	}
	m.refreshQueued = false
	return m.startRefresh(false)
}

// startSamples issues a fetch for the current selection, or clears the
// list when nothing is selected.
func (m *Model) startSamples() tea.Cmd {
	gen, ok := m.app.Session.StartSamples()
	if !ok {
		return nil
	}
	return tea.Batch(m.samplesCmd(m.app.Session.Selected(), gen), m.spinTick())
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.help.keys

	// Overlays capture the keyboard.
	switch m.overlay {
	case overlayHelp:
		if key.Matches(msg, keys.Dismiss) || key.Matches(msg, keys.ToggleHelp) || key.Matches(msg, keys.Quit) {
			m.overlay = overlayNone
		}
		return m, nil
	case overlayDeleteConfirm:
		return m.handleDeleteConfirmKey(msg)
	case overlayUpload:
		return m.handleUploadKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.ToggleHelp):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, keys.FocusNext):
		m.cycleFocus()
		return m, nil

	case key.Matches(msg, keys.NextMode):
		m.retrievalMode = nextRetrievalMode(m.retrievalMode)
		return m, nil

	case key.Matches(msg, keys.DarkMode):
		dark := m.app.ToggleDarkMode()
		m.theme = ThemeFor(dark)
		m.refreshChat(false)
		return m, nil

	case key.Matches(msg, keys.Clear):
		m.app.Session.Clear()
		m.sources.Close()
		m.refreshChat(false)
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, m.startRefresh(false)

	case key.Matches(msg, keys.Dismiss):
		if items := m.app.Toasts.Items(); len(items) > 0 {
			m.app.Toasts.Dismiss(items[0].ID)
			return m, nil
		}
		if m.sources.open {
			m.sources.Close()
		}
		return m, nil

	case key.Matches(msg, keys.Upload):
		if m.app.Session.Op(app.OpUpload).Busy() {
			return m, m.pushToast("An upload is already running.")
		}
		m.overlay = overlayUpload
		m.uploadInput.SetValue("")
		m.uploadInput.Focus()
		m.input.Blur()
		return m, textinput.Blink

	case key.Matches(msg, keys.Delete):
		if m.app.Session.Selected() == "" {
			return m, m.pushToast("Select a document first.")
		}
		m.overlay = overlayDeleteConfirm
		return m, nil

	case key.Matches(msg, keys.Summarize):
		if !m.app.Session.StartSummarize() {
			m.refreshChat(true)
			return m, nil
		}
		m.refreshChat(true)
		return m, tea.Batch(m.summarizeCmd(m.app.Session.Selected()), m.spinTick())

	case key.Matches(msg, keys.Sources):
		m.toggleSources()
		return m, nil

	case key.Matches(msg, keys.CopySrc):
		if !m.sources.open {
			return m, nil
		}
		if err := m.sources.Copy(); err != nil {
			return m, m.pushToast("Clipboard unavailable.")
		}
		return m, m.pushToast("Sources copied.")

	case key.Matches(msg, keys.Enter):
		if m.focus == focusDocs {
			m.selectUnderCursor()
			return m, m.startSamples()
		}
		return m.onSubmit()
	}

	if m.sources.open {
		switch msg.String() {
		case "shift+up":
			m.sources.Scroll(-1, m.sourcesVisible())
			return m, nil
		case "shift+down":
			m.sources.Scroll(1, m.sourcesVisible())
			return m, nil
		}
	}

	switch m.focus {
	case focusDocs:
		return m.handleDocsKey(msg)
	case focusChat:
		switch msg.Type {
		case tea.KeyUp:
			m.chatVP.LineUp(1)
			return m, nil
		case tea.KeyDown:
			m.chatVP.LineDown(1)
			return m, nil
		case tea.KeyPgUp:
			m.chatVP.ViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.chatVP.ViewDown()
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

func (m *Model) handleDocsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	docs := m.app.Session.Documents()
	switch msg.Type {
	case tea.KeyUp:
		if m.docCursor > 0 {
			m.docCursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.docCursor < len(docs)-1 {
			m.docCursor++
		}
		return m, nil
	}

	// Number keys drop a sample question into the input.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		idx := int(s[0] - '1')
		samples := m.app.Session.Samples()
		if idx < len(samples) {
			m.input.SetValue(samples[idx])
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleDeleteConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.help.keys
	busy := m.app.Session.Op(app.OpDelete).Busy()

	switch {
	case key.Matches(msg, keys.Dismiss):
		if !busy {
			m.overlay = overlayNone
		}
		return m, nil
	case key.Matches(msg, keys.Enter):
		if busy {
			return m, nil
		}
		if !m.app.Session.StartDelete() {
			return m, nil
		}
		return m, tea.Batch(m.deleteCmd(m.app.Session.Selected()), m.spinTick())
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.help.keys

	switch {
	case key.Matches(msg, keys.Dismiss):
		m.overlay = overlayNone
		m.uploadInput.Blur()
		m.input.Focus()
		return m, nil
	case key.Matches(msg, keys.Enter):
		path := strings.TrimSpace(m.uploadInput.Value())
		if path == "" {
			return m, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return m, m.pushToast(fmt.Sprintf("Can't read %s", path))
		}
		if !m.app.Session.StartUpload() {
			return m, nil
		}
		m.overlay = overlayNone
		m.uploadInput.Blur()
		m.input.Focus()
		return m, tea.Batch(m.uploadCmd(filepath.Base(path), data), m.spinTick())
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

func (m *Model) onSubmit() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	query, ok := m.app.Session.StartAsk(raw)
	if !ok {
		// Guard notices still need to land in the viewport.
		m.refreshChat(true)
		return m, nil
	}
	m.input.Reset()
	m.refreshChat(true)
	return m, tea.Batch(m.askCmd(m.app.Session.Selected(), query), m.spinTick())
}

func (m *Model) selectUnderCursor() {
	docs := m.app.Session.Documents()
	if m.docCursor >= 0 && m.docCursor < len(docs) {
		m.app.Session.Select(docs[m.docCursor])
	}
}

func (m *Model) toggleSources() {
	if m.sources.open {
		m.sources.Close()
		return
	}
	// Most recent message that carries citations.
	msgs := m.app.Session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Meta != nil && len(msgs[i].Meta.Citations) > 0 {
			m.sources.Show(msgs[i])
			return
		}
	}
}

func (m *Model) cycleFocus() {
	m.focus++
	if m.focus > focusChat {
		m.focus = focusInput
	}
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) clampDocCursor() {
	n := len(m.app.Session.Documents())
	if m.docCursor >= n {
		m.docCursor = n - 1
	}
	if m.docCursor < 0 {
		m.docCursor = 0
	}
}

func (m *Model) anyBusy() bool {
	for _, k := range app.Kinds {
		if m.app.Session.Op(k).Busy() {
			return true
		}
	}
	return false
}

func (m *Model) statusText() string {
	s := m.app.Session
	switch {
	case s.Op(app.OpAsk).Busy():
		return "Thinking…"
	case s.Op(app.OpSummarize).Busy():
		return "Summarizing…"
	case s.Op(app.OpUpload).Busy():
		return "Uploading…"
	case s.Op(app.OpDelete).Busy():
		return "Deleting…"
	case s.Op(app.OpSamples).Busy():
		return "Fetching questions…"
	default:
		return "Ready"
	}
}

// refreshChat re-renders the conversation into the viewport; follow pins
// the view to the newest message, which every append requires.
func (m *Model) refreshChat(follow bool) {
	if !m.ready {
		return
	}
	width := m.chatVP.Width
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	msgs := m.app.Session.Messages()
	if len(msgs) == 0 {
		b.WriteString(m.theme.Footer.Render("Upload or select a document, then ask a question or press ctrl+s to summarize."))
	}
	for i, msg := range msgs {
		b.WriteString(m.renderMessage(msg, width))
		if i != len(msgs)-1 {
			b.WriteString("\n\n")
		}
	}
	m.chatVP.SetContent(b.String())
	if follow {
		m.chatVP.GotoBottom()
	}
}

func (m *Model) renderMessage(msg app.Message, width int) string {
	var roleStyle lipgloss.Style
	var label string
	switch msg.Role {
	case app.RoleUser:
		roleStyle, label = m.theme.RoleYou, "YOU"
	case app.RoleAssistant:
		roleStyle, label = m.theme.RoleAI, "RAG"
	default:
		roleStyle, label = m.theme.RoleSys, "SYS"
		if msg.Meta != nil && msg.Meta.Kind == app.KindError {
			roleStyle, label = m.theme.RoleErr, "ERR"
		}
	}

	header := roleStyle.Render(label) + " " + m.theme.TopBarMeta.Render(msg.CreatedAt.Format("15:04"))
	if msg.Meta != nil && msg.Meta.Confidence != nil {
		conf := m.theme.ConfidenceStyle(msg.Meta.Confidence.Tone)
		header += "  " + conf.Render("Confidence: "+msg.Meta.Confidence.Label)
	}
	if msg.Meta != nil && len(msg.Meta.Citations) > 0 {
		header += "  " + m.theme.Footer.Render(fmt.Sprintf("%d sources (ctrl+o)", len(msg.Meta.Citations)))
	}

	var body string
	if msg.Role == app.RoleAssistant {
		body = m.markdown.Render(msg.Text, width)
	} else {
		body = lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(msg.Text)
	}
	return header + "\n" + body
}

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}

	switch m.overlay {
	case overlayHelp:
		return m.centered(m.theme.ModalBox.Render(m.help.View(m.theme)))
	case overlayDeleteConfirm:
		return m.centered(m.renderDeleteConfirm())
	case overlayUpload:
		return m.centered(m.renderUploadPrompt())
	}

	l := m.computeLayout()
	top := m.renderTopBar()
	main := m.renderMain(l)
	input := m.renderInputArea(l)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, main, input, footer)
}

type layoutInfo struct {
	MainH    int
	DocsW    int
	ChatW    int
	SourcesW int
	InputW   int
}

func (m *Model) computeLayout() layoutInfo {
	mainH := m.height - 1 - 1 - 3 // top bar, footer, input box
	if mainH < 3 {
		mainH = 3
	}

	docsW := 0
	if m.width >= 80 {
		docsW = 30
	}
	sourcesW := 0
	if m.sources.open && m.width >= 110 {
		sourcesW = 40
	}
	gap := 0
	if docsW > 0 {
		gap++
	}
	if sourcesW > 0 {
		gap++
	}
	chatW := m.width - docsW - sourcesW - gap
	if chatW < 40 {
		chatW = 40
	}

	return layoutInfo{
		MainH:    mainH,
		DocsW:    docsW,
		ChatW:    chatW,
		SourcesW: sourcesW,
		InputW:   chatW - 4,
	}
}

func (m *Model) renderTopBar() string {
	left := m.theme.TopBarTitle.Render("secrag") + " " +
		m.theme.TopBarBadge.Render(strings.ToUpper(m.retrievalMode))

	status := m.statusText()
	if m.anyBusy() {
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " " + status)
	} else {
		status = m.theme.TopBarMeta.Render(status)
	}

	right := m.theme.TopBarMeta.Render(m.backend)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", gap-a) + right)
}

func (m *Model) renderFooter() string {
	if toasts := m.renderToasts(); toasts != "" {
		return toasts
	}
	hints := "tab focus  shift+tab mode  ctrl+s summarize  ctrl+u upload  ctrl+o sources  ctrl+g help"
	if m.width < 100 {
		hints = "tab focus  ctrl+s summarize  ctrl+g help"
	}
	return m.theme.Footer.Width(m.width).Render(hints)
}

func (m *Model) renderToasts() string {
	items := m.app.Toasts.Items()
	if len(items) == 0 {
		return ""
	}
	// Newest sits closest to the input line.
	parts := make([]string, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		parts = append(parts, m.theme.Toast.Render(items[i].Text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderInputArea(l layoutInfo) string {
	box := m.theme.InputBox
	if m.focus == focusInput {
		box = m.theme.InputBoxF
	}
	return box.Width(maxInt(10, l.ChatW-2)).Render(m.input.View())
}

func (m *Model) renderMain(l layoutInfo) string {
	panes := make([]string, 0, 5)
	if l.DocsW > 0 {
		panes = append(panes, m.renderDocsPane(l), m.theme.PaneDivider.Render("│"))
	}
	panes = append(panes, m.renderChatPane(l))
	if l.SourcesW > 0 {
		panes = append(panes, m.theme.PaneDivider.Render("│"), m.renderSourcesPane(l))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m *Model) renderChatPane(l layoutInfo) string {
	title := m.theme.PaneTitle.Render("Chat")
	box := m.theme.Pane
	if m.focus == focusChat {
		title = m.theme.PaneTitleF.Render("Chat")
		box = m.theme.PaneFocused
	}
	return box.Width(l.ChatW).Height(l.MainH).Render(title + "\n" + m.chatVP.View())
}

func (m *Model) renderDocsPane(l layoutInfo) string {
	s := m.app.Session
	docs := s.Documents()

	titleText := fmt.Sprintf("Documents (%d)", len(docs))
	title := m.theme.PaneTitle.Render(titleText)
	box := m.theme.Pane
	if m.focus == focusDocs {
		title = m.theme.PaneTitleF.Render(titleText)
		box = m.theme.PaneFocused
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	if len(docs) == 0 {
		b.WriteString(m.theme.Footer.Render("No documents yet. ctrl+u uploads a PDF."))
	}
	innerW := l.DocsW - 4
	for i, d := range docs {
		cursor := "  "
		style := m.theme.DocItem
		if d == s.Selected() {
			style = m.theme.DocItemSel
		}
		if i == m.docCursor && m.focus == focusDocs {
			cursor = "> "
		}
		b.WriteString(cursor + style.Render(truncateRunes(d, maxInt(8, innerW-2))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	sel := s.Selected()
	if sel == "" {
		sel = "None"
	}
	b.WriteString(m.theme.Footer.Render("Selected: " + truncateRunes(sel, maxInt(8, innerW-10))))

	if samples := s.Samples(); len(samples) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.theme.PaneTitle.Render("Try asking"))
		b.WriteString("\n")
		for i, q := range samples {
			if i >= 9 {
				break
			}
			b.WriteString(m.theme.Sample.Render(fmt.Sprintf("%d. %s", i+1, truncateRunes(oneLine(q), maxInt(8, innerW-4)))))
			b.WriteString("\n")
		}
	}

	return box.Width(l.DocsW).Height(l.MainH).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderSourcesPane(l layoutInfo) string {
	titleText := "Sources"
	if m.sources.document != "" {
		titleText = "Sources — " + truncateRunes(m.sources.document, maxInt(8, l.SourcesW-14))
	}
	title := m.theme.PaneTitleF.Render(titleText)

	innerW := l.SourcesW - 4
	visible := m.sourcesVisible()
	start := m.sources.offset
	end := start + visible
	if end > len(m.sources.citations) {
		end = len(m.sources.citations)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if len(m.sources.citations) == 0 {
		b.WriteString(m.theme.Footer.Render("No citations."))
	}
	for i := start; i < end; i++ {
		c := m.sources.citations[i]
		head := fmt.Sprintf("Chunk %d", c.ChunkID)
		score := m.theme.ConfidenceStyle(app.ConfidenceFromScore(c.Score).Tone).Render(fmt.Sprintf("%.3f", c.Score))
		b.WriteString(m.theme.TopBarTitle.Render(head) + " " + score + "\n")
		if preview := oneLine(c.Preview(200)); preview != "" {
			b.WriteString(m.theme.Footer.Width(maxInt(10, innerW)).Render(truncateRunes(preview, maxInt(20, innerW*2))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Footer.Render("shift+↑/↓ scroll  ctrl+y copy  ctrl+o close"))

	return m.theme.Pane.Width(l.SourcesW).Height(l.MainH).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) sourcesVisible() int {
	l := m.computeLayout()
	return maxInt(1, (l.MainH-3)/3)
}

func (m *Model) renderDeleteConfirm() string {
	doc := m.app.Session.Selected()
	busy := m.app.Session.Op(app.OpDelete).Busy()
	lastErr := m.app.Session.Op(app.OpDelete).LastError()

	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render("Delete document?"))
	b.WriteString("\n\n")
	b.WriteString("You are about to delete:\n")
	b.WriteString("  " + m.theme.DocItemSel.Render(doc) + "\n\n")
	b.WriteString(m.theme.Footer.Render("This removes the PDF and its generated artifacts.\nIt cannot be undone."))
	if lastErr != "" {
		b.WriteString("\n\n")
		b.WriteString(m.theme.ModalErr.Render(lastErr))
	}
	b.WriteString("\n\n")
	if busy {
		b.WriteString(m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " Deleting…"))
	} else {
		b.WriteString(m.theme.ModalAction.Render("enter") + " delete   " + m.theme.ModalAction.Render("esc") + " cancel")
	}
	return m.theme.ModalBox.Render(b.String())
}

func (m *Model) renderUploadPrompt() string {
	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render("Upload PDF"))
	b.WriteString("\n\n")
	b.WriteString("Path to the file:\n")
	b.WriteString(m.uploadInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.ModalAction.Render("enter") + " upload   " + m.theme.ModalAction.Render("esc") + " cancel")
	return m.theme.ModalBox.Render(b.String())
}

func (m *Model) centered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func nextRetrievalMode(mode string) string {
	for i, v := range app.RetrievalModes {
		if v == mode {
			return app.RetrievalModes[(i+1)%len(app.RetrievalModes)]
		}
	}
	return app.RetrievalModes[0]
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	var opErr *app.OpError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-1]) + "…"
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
