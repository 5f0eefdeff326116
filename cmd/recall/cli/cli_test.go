package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/felixgeelhaar/recall/internal/chat"
	"github.com/felixgeelhaar/recall/internal/engine"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/settings"
	"github.com/felixgeelhaar/recall/internal/store"
)

func TestRunner(t *testing.T) {
	s, err := store.NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Init(ctx, "T1"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	o := observe.New(io.Discard, true)
	eng := engine.New(s, o)
	rec := chat.NewRecorder(
		chat.User{ID: "B1", Name: "recall"},
		chat.User{ID: "U1", Name: "alice"},
	)
	sess := &engine.Session{
		Adapter:  rec,
		Group:    "T1",
		Settings: settings.Defaults(),
		Names:    chat.NewNameCache(),
	}

	inputs := make(chan string, 2)
	inputs <- "@recall Go is a programming language"
	inputs <- "@recall Go?"
	close(inputs)

	r := NewRunner(o, s, eng, sess, nil)
	r.BotName = "recall"
	r.Sender = chat.User{ID: "U1", Name: "alice"}
	r.Inputs = inputs

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sent := rec.Drain()
	if len(sent) == 0 {
		t.Fatal("expected the bot to respond")
	}
	last := sent[len(sent)-1]
	if !strings.Contains(last.Text, "a programming language") {
		t.Errorf("last response = %q, want the taught factoid", last.Text)
	}
}

func TestRunnerCancelled(t *testing.T) {
	s, err := store.NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	o := observe.New(io.Discard, false)
	eng := engine.New(s, o)
	sess := &engine.Session{
		Adapter:  chat.NewRecorder(chat.User{ID: "B1", Name: "recall"}),
		Group:    "T1",
		Settings: settings.Defaults(),
		Names:    chat.NewNameCache(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(o, s, eng, sess, nil)
	r.Inputs = make(chan string)

	if err := r.Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestDirectMention(t *testing.T) {
	cases := []struct {
		in     string
		body   string
		direct bool
	}{
		{"@recall foo is bar", "foo is bar", true},
		{"@Recall foo?", "foo?", true},
		{"recall: status", "status", true},
		{"foo is bar", "foo is bar", false},
		{"recalls are fun", "recalls are fun", false},
		{"  @recall   spaced  ", "spaced", true},
	}

	for _, c := range cases {
		body, direct := directMention(c.in, "recall")
		if body != c.body || direct != c.direct {
			t.Errorf("directMention(%q) = (%q, %v), want (%q, %v)",
				c.in, body, direct, c.body, c.direct)
		}
	}
}

func TestCLI_Root(t *testing.T) {
	if len(RootCmd.Commands()) < 3 {
		t.Errorf("Expected at least 3 subcommands (console, settings, ask), got %d", len(RootCmd.Commands()))
	}
}

func TestCLI_Settings(t *testing.T) {
	found := false
	for _, cmd := range RootCmd.Commands() {
		if cmd.Name() == "settings" {
			found = true
			if len(cmd.Commands()) < 2 {
				t.Errorf("Expected set and get subcommands for settings, got %d", len(cmd.Commands()))
			}
		}
	}
	if !found {
		t.Error("settings command not found")
	}
}
