package chat

import (
	"context"
	"fmt"
	"io"
)

// WriterAdapter prints outbound messages to an io.Writer. It backs
// one-shot command invocations where no interactive session exists.
type WriterAdapter struct {
	w     io.Writer
	self  User
	users []User
}

func NewWriterAdapter(w io.Writer, self User, users ...User) *WriterAdapter {
	return &WriterAdapter{w: w, self: self, users: users}
}

func (a *WriterAdapter) Reply(ctx context.Context, channel, text string) error {
	_, err := fmt.Fprintln(a.w, text)
	return err
}

func (a *WriterAdapter) Emote(ctx context.Context, channel, text string) error {
	_, err := fmt.Fprintf(a.w, "* %s %s\n", a.self.Name, text)
	return err
}

func (a *WriterAdapter) SendDirect(ctx context.Context, userID, text string) error {
	name := userID
	for _, u := range a.users {
		if u.ID == userID {
			name = u.Name
			break
		}
	}
	_, err := fmt.Fprintf(a.w, "(dm to %s) %s\n", name, text)
	return err
}

func (a *WriterAdapter) ListUsers(ctx context.Context) ([]User, error) {
	return a.users, nil
}

func (a *WriterAdapter) Identity() User {
	return a.self
}
