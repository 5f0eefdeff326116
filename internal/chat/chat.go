// Package chat defines the outbound boundary between the engine and
// whatever platform carries the conversation.
package chat

import "context"

// User is a resolved platform account.
type User struct {
	ID   string
	Name string
}

// Adapter is the surface the engine talks through. Implementations
// must propagate delivery failures; the engine decides how to report
// them.
type Adapter interface {
	// Reply posts text to the channel the message arrived on.
	Reply(ctx context.Context, channel, text string) error

	// Emote posts text as a "/me"-style action in the channel.
	Emote(ctx context.Context, channel, text string) error

	// SendDirect opens (or reuses) a private conversation with the
	// user and delivers text there.
	SendDirect(ctx context.Context, userID, text string) error

	// ListUsers returns the directory of known users.
	ListUsers(ctx context.Context) ([]User, error)

	// Identity returns the bot's own account.
	Identity() User
}
