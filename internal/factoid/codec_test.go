package factoid

import (
	"errors"
	"testing"
)

// pinned returns a picker that always chooses index i.
func pinned(i int) Picker {
	return func(n int) int {
		if i >= n {
			return n - 1
		}
		return i
	}
}

func TestSplit(t *testing.T) {
	cases := []struct {
		raw  string
		verb string
		body string
		err  bool
	}{
		{"is a cool way to talk to your team", "is", "a cool way to talk to your team", false},
		{"are super cute", "are", "super cute", false},
		{"IS loud", "is", "loud", false},
		{"was something", "", "", true},
		{"", "", "", true},
		{"is", "", "", true},
	}

	for _, c := range cases {
		verb, body, err := Split(c.raw)
		if c.err {
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Split(%q) error = %v, want ErrMalformed", c.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Split(%q) unexpected error: %v", c.raw, err)
			continue
		}
		if verb != c.verb || body != c.body {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", c.raw, verb, body, c.verb, c.body)
		}
	}
}

func TestStripVerb(t *testing.T) {
	if got := StripVerb("is bar"); got != "bar" {
		t.Errorf("StripVerb = %q, want %q", got, "bar")
	}
	if got := StripVerb("bogus"); got != "bogus" {
		t.Errorf("malformed value should pass through, got %q", got)
	}
}

func TestRenderPlain(t *testing.T) {
	c := NewCodec(pinned(0))
	r, err := c.Render("Slack", "is a cool way to talk to your team", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != KindSay {
		t.Errorf("kind = %v, want KindSay", r.Kind)
	}
	if r.Text != "Slack is a cool way to talk to your team" {
		t.Errorf("text = %q", r.Text)
	}
}

func TestRenderAlternatives(t *testing.T) {
	raw := "is very happy | not happy at all"

	r, err := NewCodec(pinned(0)).Render("Schrodinger's cat", raw, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "Schrodinger's cat is very happy" {
		t.Errorf("first alternative: %q", r.Text)
	}

	r, err = NewCodec(pinned(1)).Render("Schrodinger's cat", raw, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "Schrodinger's cat is not happy at all" {
		t.Errorf("second alternative: %q", r.Text)
	}
}

func TestRenderEscapedPipe(t *testing.T) {
	// \| is a literal pipe, not an alternative separator.
	d, err := NewCodec(pinned(0)).Decode(`is a\|b`, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if d.Text != `a\|b` {
		t.Errorf("escaped pipe: %q", d.Text)
	}
}

func TestRenderReplyDirective(t *testing.T) {
	r, err := NewCodec(pinned(0)).Render("hodor", "is <reply>hodor!", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != KindReply {
		t.Errorf("kind = %v, want KindReply", r.Kind)
	}
	if r.Text != "hodor!" {
		t.Errorf("text = %q", r.Text)
	}
}

func TestRenderActionDirective(t *testing.T) {
	r, err := NewCodec(pinned(0)).Render("licks the bot", "is <action>exudes a foul oil", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != KindEmote {
		t.Errorf("kind = %v, want KindEmote", r.Kind)
	}
	if r.Text != "exudes a foul oil" {
		t.Errorf("text = %q", r.Text)
	}
}

func TestReplyCheckedBeforeAction(t *testing.T) {
	d, err := NewCodec(pinned(0)).Decode("is <reply><action>x", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind != KindReply {
		t.Errorf("kind = %v, want KindReply", d.Kind)
	}
	if d.Text != "<action>x" {
		t.Errorf("text = %q", d.Text)
	}
}

func TestRenderSenderSubstitution(t *testing.T) {
	r, err := NewCodec(pinned(0)).Render("ice cream", "is $who's favorite treat", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "ice cream is alice's favorite treat" {
		t.Errorf("text = %q", r.Text)
	}

	// Case-insensitive placeholder.
	r, _ = NewCodec(pinned(0)).Render("x", "is $WHO here", "bob")
	if r.Text != "x is bob here" {
		t.Errorf("text = %q", r.Text)
	}
}

func TestRenderPerAlternativeDirectives(t *testing.T) {
	raw := "is <reply>1|<reply>2|<reply>3"
	r, err := NewCodec(pinned(2)).Render("roll 1d3", raw, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != KindReply || r.Text != "3" {
		t.Errorf("got (%v, %q)", r.Kind, r.Text)
	}
}

func TestRenderMalformed(t *testing.T) {
	_, err := NewCodec(pinned(0)).Render("foo", "has no verb", "alice")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}
