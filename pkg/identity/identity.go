// Package identity resolves opaque user references to display names.
// Telegram offers no lookup-by-username API, so the production resolver is
// backed by a registry of every user the bot has seen, persisted in storage.
package identity

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/korjavin/lunchbot/pkg/logger"
	"github.com/korjavin/lunchbot/pkg/storage"
)

// ErrUnknownUser is returned when a reference matches no recorded user.
var ErrUnknownUser = errors.New("unknown user")

// Resolver resolves a user reference (an @mention or a raw username) to a
// display name. Resolution may hit external storage and can fail; callers
// resolve once per command and never cache across commands.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Registry is the storage-backed Resolver. Record is called for every
// inbound message, so anyone who has talked near the bot resolves.
type Registry struct {
	store  *storage.Store
	logger *logger.Logger
}

// NewRegistry creates a registry on top of the given store.
func NewRegistry(store *storage.Store) *Registry {
	return &Registry{
		store:  store,
		logger: logger.New("identity"),
	}
}

// Record remembers a user's display name under their username.
func (r *Registry) Record(username, displayName string) error {
	if username == "" || displayName == "" {
		return nil
	}
	r.logger.Debug("Recording user %s as %q", username, displayName)
	return r.store.Set(userKey(username), displayName)
}

// Resolve looks a reference up in the registry.
func (r *Registry) Resolve(ctx context.Context, ref string) (string, error) {
	var displayName string
	err := r.store.Get(userKey(ref), &displayName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", errors.Wrap(ErrUnknownUser, ref)
		}
		return "", errors.Wrapf(err, "resolving %q", ref)
	}
	return displayName, nil
}

func userKey(ref string) string {
	return "user:" + strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ref), "@"))
}
