package store

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/recall/internal/settings"
)

// ErrUnavailable wraps every failure to reach the backing medium so
// callers can distinguish infrastructure trouble from ordinary "not
// found" outcomes.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the persistence contract for factoids, karma counters and
// per-group settings. Every operation is scoped by a group identifier;
// keys match case-insensitively. Factoid keys and karma keys are
// separate namespaces even when textually identical.
type Store interface {
	// Init creates the group's schema and seeds the default factoids
	// and settings, but only when the group has no prior state. Safe
	// to call on every connection event.
	Init(ctx context.Context, group string) error

	// Factoid looks up a key, retrying once with a "the " prefix when
	// the exact key is absent. ok is false when neither form exists.
	Factoid(ctx context.Context, group, key string) (value string, ok bool, err error)

	// SetFactoid upserts a factoid, replacing any existing value
	// wholesale. lastEdit is attribution only and never read back by
	// the engine.
	SetFactoid(ctx context.Context, group, key, value, lastEdit string) error

	// DeleteFactoid removes a key; deleting an absent key is not an
	// error.
	DeleteFactoid(ctx context.Context, group, key string) error

	// CountFactoids returns the number of stored factoids.
	CountFactoids(ctx context.Context, group string) (int, error)

	// Karma returns a counter; ok is false when the key has never
	// been incremented.
	Karma(ctx context.Context, group, key string) (value int, ok bool, err error)

	// SetKarma upserts a counter.
	SetKarma(ctx context.Context, group, key string, value int) error

	// Setting returns one stored setting.
	Setting(ctx context.Context, group, key string) (settings.Value, bool, error)

	// SetSetting upserts a setting.
	SetSetting(ctx context.Context, group, key string, v settings.Value) error

	// AllSettings returns every stored setting for the group.
	AllSettings(ctx context.Context, group string) (map[string]settings.Value, error)

	Close() error
}
