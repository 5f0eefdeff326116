// Package guard gates inbound messages before they reach the engine:
// a channel allowlist and a size cap, so one noisy integration cannot
// flood the knowledge base.
package guard

import "github.com/bmatcuk/doublestar/v4"

// Policy defines which channels the bot listens to and how large an
// inbound message may be.
type Policy struct {
	// MaxMessageSize caps inbound text in runes; longer messages are
	// truncated by the engine, not rejected.
	MaxMessageSize int `json:"max_message_size" yaml:"max_message_size"`

	// ChannelGlobs is an allowlist of channel name patterns.
	ChannelGlobs []string `json:"channel_globs" yaml:"channel_globs"`
}

// DefaultPolicy listens everywhere with the stock size cap.
var DefaultPolicy = Policy{
	MaxMessageSize: 2048,
	ChannelGlobs:   []string{"*"},
}

// Violation represents a specific breach of policy.
type Violation struct {
	Rule    string
	Message string
}

// Guard enforces the policy.
type Guard struct {
	policy Policy
}

func New(p Policy) *Guard {
	if p.MaxMessageSize <= 0 {
		p.MaxMessageSize = DefaultPolicy.MaxMessageSize
	}
	if len(p.ChannelGlobs) == 0 {
		p.ChannelGlobs = DefaultPolicy.ChannelGlobs
	}
	return &Guard{policy: p}
}

// Policy returns the guard's current configuration.
func (g *Guard) Policy() Policy {
	return g.policy
}

// CheckChannel verifies that a channel is on the allowlist.
func (g *Guard) CheckChannel(channel string) *Violation {
	for _, pattern := range g.policy.ChannelGlobs {
		match, err := doublestar.Match(pattern, channel)
		if err == nil && match {
			return nil
		}
	}
	return &Violation{Rule: "channel_globs", Message: "channel not allowed: " + channel}
}
