package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestEnterSubmitsInput(t *testing.T) {
	var got string
	m := sized(NewModel("recall", "alice", func(text string) { got = text }))

	m.Input.SetValue("  kittens are cute  ")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if got != "kittens are cute" {
		t.Errorf("submitted %q, want trimmed text", got)
	}
	if m.Input.Value() != "" {
		t.Error("input should reset after submit")
	}
	if len(m.Lines) != 1 || !strings.Contains(m.Lines[0], "kittens are cute") {
		t.Errorf("transcript = %v", m.Lines)
	}
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	called := false
	m := sized(NewModel("recall", "alice", func(string) { called = true }))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if called {
		t.Error("empty input should not submit")
	}
	if len(m.Lines) != 0 {
		t.Errorf("transcript = %v, want empty", m.Lines)
	}
}

func TestBotMessagesAppendToTranscript(t *testing.T) {
	m := sized(NewModel("recall", "alice", nil))

	next, _ := m.Update(ReplyMsg("Schrodinger's cat is dead"))
	m = next.(Model)
	next, _ = m.Update(EmoteMsg("hides"))
	m = next.(Model)
	next, _ = m.Update(DirectMsg{Recipient: "bob", Text: "alice wants you to know: x is y"})
	m = next.(Model)

	if len(m.Lines) != 3 {
		t.Fatalf("transcript has %d lines, want 3", len(m.Lines))
	}
	if !strings.Contains(m.Lines[0], "recall:") {
		t.Errorf("reply line = %q", m.Lines[0])
	}
	if !strings.Contains(m.Lines[1], "* recall hides") {
		t.Errorf("emote line = %q", m.Lines[1])
	}
	if !strings.Contains(m.Lines[2], "(dm to bob)") {
		t.Errorf("dm line = %q", m.Lines[2])
	}
}

func TestStatusUpdate(t *testing.T) {
	m := sized(NewModel("recall", "alice", nil))

	next, _ := m.Update(StatusMsg("3 factoids"))
	m = next.(Model)

	if m.Status != "3 factoids" {
		t.Errorf("status = %q", m.Status)
	}
	if !strings.Contains(m.View(), "3 factoids") {
		t.Error("view should show the status line")
	}
}

func TestQuitKeys(t *testing.T) {
	m := sized(NewModel("recall", "alice", nil))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)

	if !m.Quitting {
		t.Error("ctrl+c should mark the model as quitting")
	}
	if cmd == nil {
		t.Error("ctrl+c should return tea.Quit")
	}
}
