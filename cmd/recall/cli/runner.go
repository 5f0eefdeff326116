package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/recall/internal/chat"
	"github.com/felixgeelhaar/recall/internal/engine"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/store"
	"github.com/felixgeelhaar/recall/internal/ui"
)

// Runner drains console input into the engine until the input channel
// closes or the context is cancelled.
type Runner struct {
	Observer *observe.Observer
	Store    store.Store
	Engine   *engine.Engine
	Session  *engine.Session
	UI       ui.UI
	BotName  string
	Sender   chat.User
	Channel  string
	Inputs   <-chan string
}

func NewRunner(obs *observe.Observer, s store.Store, e *engine.Engine, sess *engine.Session, u ui.UI) *Runner {
	if u == nil {
		u = ui.SilentUI{}
	}
	return &Runner{
		Observer: obs,
		Store:    s,
		Engine:   e,
		Session:  sess,
		UI:       u,
		Channel:  consoleChannel,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	r.Observer.Log().Info().Str("group", r.Session.Group).Msg("session started")
	r.refreshStatus(ctx)

	r.Engine.Bus().Subscribe(engine.EventFactoidSet, func(engine.Event) { r.refreshStatus(ctx) })
	r.Engine.Bus().Subscribe(engine.EventFactoidForgotten, func(engine.Event) { r.refreshStatus(ctx) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-r.Inputs:
			if !ok {
				return nil
			}
			body, direct := directMention(text, r.BotName)
			msg := engine.Message{
				SenderID: r.Sender.ID,
				Sender:   r.Sender.Name,
				Channel:  r.Channel,
				IsDirect: direct,
				Text:     body,
			}
			if err := r.Engine.Handle(ctx, r.Session, msg); err != nil {
				r.Observer.Log().Error().Err(err).Msg("message handling failed")
				r.UI.UpdateStatus("storage error, see logs")
			}
		}
	}
}

func (r *Runner) refreshStatus(ctx context.Context) {
	count, err := r.Store.CountFactoids(ctx, r.Session.Group)
	if err != nil {
		return
	}
	r.UI.UpdateStatus(fmt.Sprintf("%d factoids | group %s", count, r.Session.Group))
}

// directMention strips an "@botname" or "botname:" prefix, reporting
// whether the message addressed the bot.
func directMention(text, botName string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	bot := strings.ToLower(botName)

	for _, prefix := range []string{"@" + bot, bot + ":"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return trimmed, false
}
