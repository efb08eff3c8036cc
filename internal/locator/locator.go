// Package locator resolves repository identities to local clones.
package locator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/lazyvibe/ghopen/internal/model"
	"github.com/lazyvibe/ghopen/internal/picker"
	"github.com/lazyvibe/ghopen/internal/store"
)

// ErrNoPathSelected is returned when the user picked no directory.
var ErrNoPathSelected = errors.New("no local path selected")

// Locator maps identities to local paths, asking the user on a miss and
// remembering the answer. Concurrent misses for one identity share a single
// prompt.
type Locator struct {
	store  store.RepositoryStore
	picker picker.PathPicker
	log    zerolog.Logger
	group  singleflight.Group
}

// New creates a Locator.
func New(s store.RepositoryStore, p picker.PathPicker, log zerolog.Logger) *Locator {
	return &Locator{
		store:  s,
		picker: p,
		log:    log.With().Str("component", "locator").Logger(),
	}
}

// Resolve returns the local path for identity.
func (l *Locator) Resolve(ctx context.Context, identity string) (string, error) {
	repo, err := l.store.Get(ctx, identity)
	switch {
	case err == nil:
		repo.Touch()
		if err := l.store.Put(ctx, repo); err != nil {
			l.log.Warn().Err(err).Str("identity", identity).Msg("failed to update last used")
		}
		return repo.Path, nil
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("look up %s: %w", identity, err)
	}

	v, err, shared := l.group.Do(identity, func() (any, error) {
		return l.prompt(ctx, identity)
	})
	if err != nil {
		return "", err
	}
	if shared {
		l.log.Debug().Str("identity", identity).Msg("joined in-flight prompt")
	}
	return v.(string), nil
}

func (l *Locator) prompt(ctx context.Context, identity string) (string, error) {
	l.log.Info().Str("identity", identity).Msg("no local clone known, prompting")

	path, err := l.picker.PromptForDirectory(ctx, "Select the local clone of "+identity)
	if err != nil {
		if errors.Is(err, picker.ErrCancelled) {
			return "", fmt.Errorf("%s: %w", identity, ErrNoPathSelected)
		}
		return "", fmt.Errorf("%s: %w: %w", identity, ErrNoPathSelected, err)
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%s: %w", identity, ErrNoPathSelected)
	}

	path = filepath.Clean(path)
	if err := l.Remember(ctx, identity, path); err != nil {
		return "", err
	}
	return path, nil
}

// Remember stores identity -> path, replacing any previous mapping.
func (l *Locator) Remember(ctx context.Context, identity, path string) error {
	if err := l.store.Put(ctx, model.NewRepository(identity, filepath.Clean(path))); err != nil {
		return fmt.Errorf("remember %s: %w", identity, err)
	}
	l.log.Info().Str("identity", identity).Str("path", path).Msg("remembered local clone")
	return nil
}

// Forget removes the mapping for identity.
func (l *Locator) Forget(ctx context.Context, identity string) error {
	return l.store.Delete(ctx, identity)
}
