package guard

import "testing"

func TestCheckChannelDefaultAllowsAll(t *testing.T) {
	g := New(Policy{})

	for _, ch := range []string{"#general", "#random", "dev-team"} {
		if v := g.CheckChannel(ch); v != nil {
			t.Errorf("default policy rejected %q: %+v", ch, v)
		}
	}
}

func TestCheckChannelGlobs(t *testing.T) {
	g := New(Policy{ChannelGlobs: []string{"#general", "dev-*"}})

	cases := []struct {
		channel string
		allowed bool
	}{
		{"#general", true},
		{"dev-backend", true},
		{"dev-", true},
		{"#random", false},
		{"ops-dev", false},
	}

	for _, c := range cases {
		v := g.CheckChannel(c.channel)
		if (v == nil) != c.allowed {
			t.Errorf("CheckChannel(%q) = %+v, want allowed=%v", c.channel, v, c.allowed)
		}
	}
}

func TestNewFillsDefaults(t *testing.T) {
	g := New(Policy{ChannelGlobs: []string{"#general"}})
	if g.Policy().MaxMessageSize != DefaultPolicy.MaxMessageSize {
		t.Errorf("MaxMessageSize = %d, want default", g.Policy().MaxMessageSize)
	}
}
