package chat

import (
	"context"
	"sync"
)

// Outbound is one recorded adapter call.
type Outbound struct {
	Method  string // "reply", "emote", "direct"
	Channel string // channel for reply/emote, user ID for direct
	Text    string
}

// Recorder is an Adapter for tests: it records every outbound call and
// serves a fixed user directory.
type Recorder struct {
	mu    sync.Mutex
	Sent  []Outbound
	Users []User
	Self  User

	// Err, when set, is returned from every delivery method.
	Err error
	// ListErr, when set, fails ListUsers only.
	ListErr error
}

// NewRecorder returns a Recorder with the given bot identity.
func NewRecorder(self User, users ...User) *Recorder {
	return &Recorder{Self: self, Users: users}
}

func (r *Recorder) record(method, channel, text string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Outbound{Method: method, Channel: channel, Text: text})
	return nil
}

func (r *Recorder) Reply(_ context.Context, channel, text string) error {
	return r.record("reply", channel, text)
}

func (r *Recorder) Emote(_ context.Context, channel, text string) error {
	return r.record("emote", channel, text)
}

func (r *Recorder) SendDirect(_ context.Context, userID, text string) error {
	return r.record("direct", userID, text)
}

func (r *Recorder) ListUsers(_ context.Context) ([]User, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	return r.Users, nil
}

func (r *Recorder) Identity() User { return r.Self }

// Drain returns and clears the recorded calls.
func (r *Recorder) Drain() []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	sent := r.Sent
	r.Sent = nil
	return sent
}
