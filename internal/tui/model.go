package tui

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat/internal/conversation"
	"ai-docchat/internal/session"
	"ai-docchat/pkg/gateway"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// SessionController is the part of session.Controller the view drives.
type SessionController interface {
	SubmitUpload(ctx context.Context, doc *gateway.Document) bool
	SetPending(text string)
	SubmitPending(ctx context.Context) bool
	Snapshot() session.Snapshot
}

type inputMode int

const (
	modeQuestion inputMode = iota
	modePath
)

const (
	questionPlaceholder = "Ask a question about your document..."
	pathPlaceholder     = "Path to a PDF or TXT file, enter to upload, esc to cancel"
	noDocumentHint      = "Upload a document first (ctrl+o)."

	headerHeight = 2
	footerHeight = 4
)

type (
	sessionEventMsg session.Event
	uploadDoneMsg   struct{ accepted bool }
	askDoneMsg      struct{ accepted bool }
	openFailedMsg   struct{ err error }
)

type Options struct {
	// InitialFile is uploaded as soon as the program starts.
	InitialFile string
	// GlamourStyle is a glamour standard style name. Empty means "dark".
	GlamourStyle string
	Context      context.Context
}

type Model struct {
	ctrl   SessionController
	ctx    context.Context
	opts   Options
	styles Styles

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	mode     inputMode
	snapshot session.Snapshot
	status   string
	statusOK bool

	width  int
	height int
	ready  bool
}

func New(ctrl SessionController, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = questionPlaceholder
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4000

	styles := DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "dark"
	}

	vp := viewport.New(80, 20)

	m := Model{
		ctrl:     ctrl,
		ctx:      ctx,
		opts:     opts,
		styles:   styles,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		snapshot: ctrl.Snapshot(),
		width:    80,
	}
	m.renderer = newRenderer(opts.GlamourStyle, 76)
	m.viewport.SetContent(m.renderHistory())
	return m
}

func newRenderer(style string, wrap int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.opts.InitialFile != "" {
		cmds = append(cmds, m.uploadCmd(m.opts.InitialFile))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			if m.mode == modePath {
				m.leavePathMode()
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyCtrlO:
			if !m.snapshot.Loading && m.mode == modeQuestion {
				m.mode = modePath
				m.input.Reset()
				m.input.Placeholder = pathPlaceholder
				m.setStatus("", true)
			}
			return m, nil

		case tea.KeyEnter:
			if m.snapshot.Loading {
				return m, nil
			}
			return m, m.submit()
		}

		if m.snapshot.Loading {
			// Input is disabled while a request is in flight; still allow scrolling.
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.input.Width = msg.Width - 4
		m.renderer = newRenderer(m.opts.GlamourStyle, max(msg.Width-6, 20))
		m.ready = true
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd

	case sessionEventMsg:
		m.applyEvent(session.Event(msg))
		return m, nil

	case uploadDoneMsg, askDoneMsg:
		m.refresh()
		return m, nil

	case openFailedMsg:
		m.setStatus(msg.err.Error(), false)
		return m, nil
	}

	m.input, tiCmd = m.input.Update(msg)
	if m.mode == modeQuestion {
		m.ctrl.SetPending(m.input.Value())
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *Model) submit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())

	if m.mode == modePath {
		if value == "" {
			return nil
		}
		m.leavePathMode()
		return m.uploadCmd(value)
	}

	if value == "" {
		return nil
	}
	if !m.snapshot.FileUploaded {
		m.setStatus(noDocumentHint, false)
		return nil
	}

	m.setStatus("", true)
	ctrl, ctx := m.ctrl, m.ctx
	ctrl.SetPending(m.input.Value())
	return func() tea.Msg {
		return askDoneMsg{accepted: ctrl.SubmitPending(ctx)}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		doc, err := gateway.OpenDocument(path)
		if err != nil {
			return openFailedMsg{err: err}
		}
		return uploadDoneMsg{accepted: ctrl.SubmitUpload(ctx, doc)}
	}
}

func (m *Model) leavePathMode() {
	m.mode = modeQuestion
	m.input.Placeholder = questionPlaceholder
	m.refresh()
	m.input.SetValue(m.snapshot.Pending)
	m.input.CursorEnd()
}

func (m *Model) applyEvent(e session.Event) {
	m.refresh()

	switch e.Type {
	case session.EventMessageAppended:
		if e.Message != nil && e.Message.Role == conversation.RoleUser && m.mode == modeQuestion {
			m.input.Reset()
		}
	case session.EventStateChanged:
		if e.State == session.StateUploading || e.State == session.StateAsking {
			m.setStatus("", true)
		}
	case session.EventScrollToLatest, session.EventLogReplaced:
		m.viewport.GotoBottom()
	}
}

func (m *Model) refresh() {
	m.snapshot = m.ctrl.Snapshot()
	m.viewport.SetContent(m.renderHistory())
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

func (m Model) renderHistory() string {
	if len(m.snapshot.Messages) == 0 {
		return m.styles.Status.Render("No messages yet. Press ctrl+o to upload a PDF or TXT document.")
	}

	var sb strings.Builder
	for i, msg := range m.snapshot.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch msg.Role {
		case conversation.RoleUser:
			sb.WriteString(m.styles.UserLabel.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(m.styles.UserText.Render(msg.Content))
			sb.WriteString("\n")
		default:
			sb.WriteString(m.styles.BotLabel.Render("Assistant"))
			sb.WriteString("\n")
			sb.WriteString(m.renderMarkdown(msg.Content))
		}
	}
	return sb.String()
}

func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return "  " + content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return "  " + content + "\n"
	}
	return out
}

func (m Model) View() string {
	header := m.styles.Title.Render("Document Q&A") + "  " + m.styles.Status.Render(m.documentLabel())

	var statusLine string
	switch {
	case m.snapshot.Loading:
		statusLine = m.spinner.View() + " " + m.styles.Status.Render(m.busyLabel())
	case m.status != "" && !m.statusOK:
		statusLine = m.styles.Error.Render(m.status)
	case m.status != "":
		statusLine = m.styles.Status.Render(m.status)
	}

	help := m.styles.Help.Render("enter: send • ctrl+o: upload • esc: quit")
	if m.mode == modePath {
		help = m.styles.Help.Render("enter: upload • esc: back")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		statusLine,
		m.input.View(),
		help,
	)
}

func (m Model) documentLabel() string {
	switch m.snapshot.State {
	case session.StateUploading:
		return "uploading..."
	case session.StateNoDocument:
		return "no document"
	default:
		if m.snapshot.FileUploaded {
			return fmt.Sprintf("document ready • %d messages", len(m.snapshot.Messages))
		}
		return ""
	}
}

func (m Model) busyLabel() string {
	if m.snapshot.State == session.StateUploading {
		return "Uploading document..."
	}
	return "Thinking..."
}
