// Package engine implements the message interpretation and
// knowledge-mutation engine: an ordered rule cascade that turns one
// line of chat into at most one store mutation and/or one reply.
package engine

import (
	"context"
	"html"
	"math/rand"
	"strings"
	"time"

	"github.com/felixgeelhaar/recall/internal/chat"
	"github.com/felixgeelhaar/recall/internal/factoid"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/settings"
	"github.com/felixgeelhaar/recall/internal/store"
)

// Version is reported by the status rule.
const Version = "1.0.0"

// DefaultMaxMessageSize caps inbound text (and therefore stored
// factoid values) in runes.
const DefaultMaxMessageSize = 2048

// Message is one normalized unit of inbound work.
type Message struct {
	SenderID string
	Sender   string // display name
	Channel  string
	IsDirect bool // direct message or @-mention
	Text     string
}

// Session carries the per-group context a message is handled in. The
// engine itself is state-free; settings live here and are refreshed
// from the store after every toggle.
type Session struct {
	Adapter  chat.Adapter
	Group    string
	Settings settings.Settings
	Names    *chat.NameCache
}

// Engine evaluates the rule cascade. Safe for sequential use per
// group; concurrent teaches to the same key are last-write-wins, which
// is the accepted consistency model, not a guaranteed one.
type Engine struct {
	store   store.Store
	codec   *factoid.Codec
	pick    factoid.Picker
	obs     *observe.Observer
	bus     *EventBus
	maxSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPicker injects the random-choice function used for stock-phrase
// rotation and alternative selection. Tests pass a deterministic one.
func WithPicker(p factoid.Picker) Option {
	return func(e *Engine) {
		e.pick = p
		e.codec = factoid.NewCodec(p)
	}
}

// WithMaxMessageSize overrides the inbound truncation limit.
func WithMaxMessageSize(n int) Option {
	return func(e *Engine) { e.maxSize = n }
}

// New returns an Engine backed by the given store.
func New(st store.Store, obs *observe.Observer, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		pick:    rand.Intn,
		obs:     obs,
		bus:     NewEventBus(),
		maxSize: DefaultMaxMessageSize,
	}
	e.codec = factoid.NewCodec(e.pick)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bus returns the engine's event bus for subscribers.
func (e *Engine) Bus() *EventBus { return e.bus }

// Handle runs one message through the rule cascade. Storage errors
// propagate to the caller; conversational outcomes (refusals, unknown
// recipients, "don't know") terminate normally.
func (e *Engine) Handle(ctx context.Context, sess *Session, msg Message) error {
	ctx, span := e.obs.StartSpan(ctx, "engine.Handle")
	defer span.End()

	self := sess.Adapter.Identity()
	if msg.SenderID != "" && msg.SenderID == self.ID || msg.Sender == self.Name {
		return nil
	}

	r := &request{
		sess:        sess,
		msg:         msg,
		text:        normalize(msg.Text, e.maxSize),
		shouldLearn: msg.IsDirect || sess.Settings.Ambient,
		shouldReply: msg.IsDirect || !sess.Settings.Direct,
	}

	for _, rule := range rules {
		handled, err := rule.run(ctx, e, r)
		if err != nil {
			e.obs.Log().Error().
				Str("rule", rule.name).
				Str("group", sess.Group).
				Err(err).
				Msg("rule failed")
			return err
		}
		if handled {
			return nil
		}
	}
	return nil
}

// normalize decodes HTML entities, truncates, strips NUL bytes,
// collapses newlines and trims surrounding space.
func normalize(text string, maxSize int) string {
	text = html.UnescapeString(text)
	if runes := []rune(text); len(runes) > maxSize {
		text = string(runes[:maxSize])
	}
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// request bundles one message with its derived session flags.
type request struct {
	sess        *Session
	msg         Message
	text        string
	shouldLearn bool
	shouldReply bool
}

func (r *request) reply(ctx context.Context, text string) error {
	return r.sess.Adapter.Reply(ctx, r.msg.Channel, text)
}

// oneOf picks a stock phrase.
func (e *Engine) oneOf(phrases []string) string {
	return phrases[e.pick(len(phrases))]
}

// sendRendered delivers a decoded factoid to the message's channel.
func (e *Engine) sendRendered(ctx context.Context, r *request, key, raw string) error {
	rendered, err := e.codec.Render(key, raw, r.msg.Sender)
	if err != nil {
		return err
	}
	switch rendered.Kind {
	case factoid.KindReply:
		if rendered.Text == "" {
			return nil
		}
		return r.reply(ctx, rendered.Text)
	case factoid.KindEmote:
		return r.sess.Adapter.Emote(ctx, r.msg.Channel, rendered.Text)
	default:
		return r.reply(ctx, rendered.Text)
	}
}

// setFactoid writes a value with attribution, publishes the mutation
// and confirms when the session warrants it.
func (e *Engine) setFactoid(ctx context.Context, r *request, key, value string) error {
	value = escapeAtGroups(value)
	lastEdit := "on " + time.Now().Format(time.RFC1123) + " by " + r.msg.Sender
	if err := e.store.SetFactoid(ctx, r.sess.Group, key, value, lastEdit); err != nil {
		return err
	}
	e.bus.Publish(Event{Type: EventFactoidSet, Group: r.sess.Group, Key: key})
	if r.sess.Settings.Verbose || r.msg.IsDirect {
		return r.reply(ctx, e.oneOf(okayPhrases))
	}
	return nil
}
