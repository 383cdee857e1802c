package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"helpdesk-backend/internal/widget"
)

// Message types for Bubble Tea
type replyMsg struct {
	err error
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97757")).Padding(0, 1)
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E5E5")).Background(lipgloss.Color("#3B3B3B")).Padding(0, 1)
	botStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E5E5")).Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#D97757"))
	errorStyle   = botStyle.Foreground(lipgloss.Color("#E06C75"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Padding(0, 1)
)

// Model is the chat TUI. All transcript state lives in the widget.
type Model struct {
	widget   *widget.Widget
	ctx      context.Context
	endpoint string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool
	status string
}

func New(ctx context.Context, w *widget.Widget, endpoint string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message and press Enter..."
	ti.Prompt = "┃ "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		widget:   w,
		ctx:      ctx,
		endpoint: endpoint,
		input:    ti,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(msg.Height-4, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+l":
			if !m.widget.Busy() {
				m.widget.Transcript().Clear()
				m.refresh()
			}
			return m, nil

		case "enter":
			return m.send()

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case replyMsg:
		m.status = ""
		m.refresh()
		m.input.Focus()
		return m, nil

	case spinner.TickMsg:
		if m.widget.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) send() (tea.Model, tea.Cmd) {
	pending, err := m.widget.Submit(m.input.Value())
	switch {
	case errors.Is(err, widget.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, widget.ErrBusy):
		m.status = "Still waiting for the previous reply..."
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.wait(pending))
}

func (m Model) wait(p *widget.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{err: p.Wait(ctx)}
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderTranscript(m.widget.Transcript().Entries(), m.width))
	m.viewport.GotoBottom()
}

func renderTranscript(entries []widget.Entry, width int) string {
	if len(entries) == 0 {
		return statusStyle.Render("Ask the help desk anything.")
	}

	bubbleWidth := max(width*3/4, 20)
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch {
		case e.Placeholder:
			b.WriteString(pendingStyle.Render(e.Text))
		case e.Sender == widget.SenderUser:
			line := userStyle.MaxWidth(bubbleWidth).Render(e.Text)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, line))
		case strings.HasPrefix(e.Text, "Error:"):
			b.WriteString(errorStyle.Width(bubbleWidth).Render(e.Text))
		default:
			b.WriteString(botStyle.Width(bubbleWidth).Render(e.Text))
		}
	}
	return b.String()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Help Desk") + statusStyle.Render(m.endpoint)

	status := m.status
	if m.widget.Busy() {
		status = m.spinner.View() + " waiting for reply"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		statusStyle.Render(status),
		m.input.View(),
	)
}
