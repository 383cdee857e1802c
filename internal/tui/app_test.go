package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"helpdesk-backend/internal/widget"
)

type stubRelay struct {
	reply string
	err   error
}

func (s stubRelay) Send(ctx context.Context, message string) (string, error) {
	return s.reply, s.err
}

// runCmd executes cmd and any batched commands, returning the messages produced.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newSizedModel(relay widget.Relay) (Model, *widget.Widget) {
	w := widget.New(relay, nil)
	m := New(context.Background(), w, "http://localhost:3000/api/chat")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model), w
}

func TestModel_EnterSendsAndRendersReply(t *testing.T) {
	m, w := newSizedModel(stubRelay{reply: "Hi from the desk"})
	m.input.SetValue("Hello")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	entries := w.Transcript().Entries()
	if len(entries) != 2 || !entries[1].Placeholder {
		t.Fatalf("expected user bubble and placeholder, got %+v", entries)
	}

	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(replyMsg); ok {
			updated, _ = m.Update(msg)
			m = updated.(Model)
		}
	}

	entries = w.Transcript().Entries()
	if len(entries) != 2 || entries[1].Text != "Hi from the desk" {
		t.Fatalf("unexpected transcript %+v", entries)
	}
	if view := m.View(); !strings.Contains(view, "Hi from the desk") {
		t.Errorf("view does not show reply:\n%s", view)
	}
}

func TestModel_EnterIgnoresEmptyInput(t *testing.T) {
	m, w := newSizedModel(stubRelay{reply: "unused"})
	m.input.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty input")
	}
	if n := len(w.Transcript().Entries()); n != 0 {
		t.Errorf("transcript should stay empty, has %d entries", n)
	}
}

func TestModel_BusyRejectsSecondSend(t *testing.T) {
	m, w := newSizedModel(stubRelay{reply: "later"})
	m.input.SetValue("first")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m.input.SetValue("second")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !strings.Contains(m.status, "previous reply") {
		t.Errorf("status %q", m.status)
	}
	if m.input.Value() != "second" {
		t.Errorf("input should be kept while busy, got %q", m.input.Value())
	}
	if n := len(w.Transcript().Entries()); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
}

func TestRenderTranscript_Error(t *testing.T) {
	m, _ := newSizedModel(stubRelay{err: errors.New("connection refused")})
	m.input.SetValue("Hello")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(replyMsg); ok {
			updated, _ = m.Update(msg)
			m = updated.(Model)
		}
	}

	if view := m.View(); !strings.Contains(view, "Error: connection refused") {
		t.Errorf("view does not show error:\n%s", view)
	}
}
