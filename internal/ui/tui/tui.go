// Package tui renders the interactive console chat session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/recall/internal/chat"
)

// TUI forwards session updates into a running bubbletea program.
type TUI struct {
	program *tea.Program
}

func NewTUI(p *tea.Program) *TUI {
	return &TUI{program: p}
}

func (t *TUI) UpdateStatus(status string) {
	t.program.Send(StatusMsg(status))
}

func (t *TUI) Transcript(line string) {
	t.program.Send(TranscriptMsg(line))
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	youStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F87FF"))

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AF87FF"))

	emoteStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#AF87FF"))

	dmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#808080"))
)

type Model struct {
	BotName  string
	Sender   string
	Status   string
	Lines    []string
	Viewport viewport.Model
	Input    textinput.Model
	Submit   func(text string)
	Quitting bool
	Ready    bool
	Width    int
	Height   int
}

type TranscriptMsg string
type StatusMsg string
type ReplyMsg string
type EmoteMsg string

// DirectMsg is a private message the bot sent to a named recipient.
type DirectMsg struct {
	Recipient string
	Text      string
}

func NewModel(botName, sender string, submit func(text string)) Model {
	in := textinput.New()
	in.Placeholder = "say something"
	in.Focus()
	return Model{
		BotName: botName,
		Sender:  sender,
		Status:  "Connecting...",
		Input:   in,
		Submit:  submit,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.Input.Value())
			if text != "" {
				m.appendLine(youStyle.Render(m.Sender+":") + " " + text)
				if m.Submit != nil {
					m.Submit(text)
				}
			}
			m.Input.Reset()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if !m.Ready {
			m.Viewport = viewport.New(msg.Width, msg.Height-4)
			m.Viewport.SetContent(strings.Join(m.Lines, "\n"))
			m.Ready = true
		} else {
			m.Viewport.Width = msg.Width
			m.Viewport.Height = msg.Height - 4
		}

	case ReplyMsg:
		m.appendLine(botStyle.Render(m.BotName+":") + " " + string(msg))

	case EmoteMsg:
		m.appendLine(emoteStyle.Render("* " + m.BotName + " " + string(msg)))

	case DirectMsg:
		m.appendLine(dmStyle.Render(fmt.Sprintf("(dm to %s) %s", msg.Recipient, msg.Text)))

	case TranscriptMsg:
		m.appendLine(string(msg))

	case StatusMsg:
		m.Status = string(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)

	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLine(line string) {
	m.Lines = append(m.Lines, line)
	if m.Ready {
		m.Viewport.SetContent(strings.Join(m.Lines, "\n"))
		m.Viewport.GotoBottom()
	}
}

func (m Model) View() string {
	if !m.Ready {
		return "\n  Connecting..."
	}

	header := titleStyle.Render(" " + m.BotName + " ")
	status := statusStyle.Render(" " + m.Status + " ")

	view := fmt.Sprintf("%s%s\n%s\n%s",
		header, status,
		m.Viewport.View(),
		m.Input.View())

	if m.Quitting {
		return view + "\n  Bye.\n"
	}

	return view
}

// Adapter bridges the engine's outbound calls onto the running program.
// Replies and emotes land in the transcript; direct messages are shown
// inline since the console has a single participant.
type Adapter struct {
	program *tea.Program
	self    chat.User
	users   []chat.User
}

func NewAdapter(p *tea.Program, self chat.User, users []chat.User) *Adapter {
	return &Adapter{program: p, self: self, users: users}
}

func (a *Adapter) Reply(ctx context.Context, channel, text string) error {
	a.program.Send(ReplyMsg(text))
	return nil
}

func (a *Adapter) Emote(ctx context.Context, channel, text string) error {
	a.program.Send(EmoteMsg(text))
	return nil
}

func (a *Adapter) SendDirect(ctx context.Context, userID, text string) error {
	name := userID
	for _, u := range a.users {
		if u.ID == userID {
			name = u.Name
			break
		}
	}
	a.program.Send(DirectMsg{Recipient: name, Text: text})
	return nil
}

func (a *Adapter) ListUsers(ctx context.Context) ([]chat.User, error) {
	return a.users, nil
}

func (a *Adapter) Identity() chat.User {
	return a.self
}
