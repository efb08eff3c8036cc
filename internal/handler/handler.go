// Package handler runs one pipeline per incoming URI: parse, locate, check
// out, notify.
package handler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lazyvibe/ghopen/internal/checkout"
	"github.com/lazyvibe/ghopen/internal/deeplink"
	"github.com/lazyvibe/ghopen/internal/git"
	"github.com/lazyvibe/ghopen/internal/locator"
	"github.com/lazyvibe/ghopen/internal/model"
	"github.com/lazyvibe/ghopen/internal/notify"
)

// Runner performs checkout requests.
type Runner interface {
	Run(ctx context.Context, action model.OpenRepositoryFromURL) (model.CheckoutOutcome, error)
}

// Rememberer stores identity to path mappings.
type Rememberer interface {
	Remember(ctx context.Context, identity, path string) error
}

// Config tunes the handler.
type Config struct {
	// HostPrefixes are stripped from remote URLs to form identities.
	HostPrefixes []string
	// Timeout bounds each pipeline, including the time spent in the
	// directory picker. Zero waits indefinitely.
	Timeout time.Duration
}

// Handler turns URIs into actions and carries them out.
type Handler struct {
	runner   Runner
	locator  Rememberer
	engine   git.Engine
	notifier notify.Notifier
	cfg      Config
	log      zerolog.Logger
}

// New creates a Handler.
func New(runner Runner, l Rememberer, engine git.Engine, notifier notify.Notifier, cfg Config, log zerolog.Logger) *Handler {
	if cfg.HostPrefixes == nil {
		cfg.HostPrefixes = checkout.DefaultHostPrefixes
	}
	return &Handler{
		runner:   runner,
		locator:  l,
		engine:   engine,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

// Handle runs the pipeline for rawURI. Unrecognised URIs are dropped and
// return nil. The returned error is already reported to the user.
func (h *Handler) Handle(ctx context.Context, rawURI string) error {
	log := h.log.With().Str("pipeline", uuid.NewString()).Logger()
	ctx = log.WithContext(ctx)

	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	action := deeplink.Parse(rawURI)
	log.Debug().Str("action", action.Name()).Msg("parsed uri")

	switch a := action.(type) {
	case model.Unknown:
		log.Debug().Str("uri", a.RawURL).Msg("ignoring unrecognised uri")
		return nil

	case model.OAuthCallback:
		// No OAuth client is waiting on this launcher.
		log.Info().Str("state", a.State).Msg("ignoring oauth callback")
		return nil

	case model.OpenRepositoryFromURL:
		return h.openFromURL(ctx, log, a)

	case model.OpenRepositoryFromPath:
		return h.openFromPath(ctx, log, a)

	default:
		return fmt.Errorf("unhandled action %T", action)
	}
}

// show delivers n even after ctx has been cancelled or timed out.
func (h *Handler) show(ctx context.Context, n notify.Notification) {
	h.notifier.Show(context.WithoutCancel(ctx), n)
}

func (h *Handler) openFromURL(ctx context.Context, log zerolog.Logger, action model.OpenRepositoryFromURL) error {
	log.Info().
		Str("repo", action.RepoPath).
		Str("branch", action.Branch).
		Str("pr", action.PullRequestNumber).
		Msg("open repository")

	outcome, err := h.runner.Run(ctx, action)
	if err != nil {
		log.Error().Err(err).Str("identity", outcome.RepositoryIdentity).Msg("pipeline aborted")
		if errors.Is(err, locator.ErrNoPathSelected) {
			h.show(ctx, notify.Notification{
				Title:      "No repository selected",
				Body:       "Pick the local clone of " + outcome.RepositoryIdentity + " to open it",
				Kind:       notify.KindError,
				Repository: outcome.RepositoryIdentity,
			})
			return err
		}
		h.show(ctx, notify.Notification{
			Title:      "Could not open " + outcome.RepositoryIdentity,
			Body:       err.Error(),
			Kind:       notify.KindError,
			Repository: outcome.RepositoryIdentity,
		})
		return err
	}

	h.show(ctx, outcomeNotification(outcome))
	if !outcome.Succeeded() {
		return errors.New(outcome.ErrorMessage)
	}
	return nil
}

// outcomeNotification describes a finished checkout. A failed checkout gets
// only the failure notice.
func outcomeNotification(o model.CheckoutOutcome) notify.Notification {
	switch {
	case !o.Succeeded():
		return notify.Notification{
			Title:      "Checkout failed",
			Body:       o.ErrorMessage,
			Kind:       notify.KindError,
			Repository: o.RepositoryIdentity,
		}
	case o.Branch == "":
		return notify.Notification{
			Title:      "Opened repository",
			Body:       o.RepositoryIdentity,
			Kind:       notify.KindSuccess,
			Repository: o.RepositoryIdentity,
		}
	default:
		return notify.Notification{
			Title:      "Checked out branch",
			Body:       fmt.Sprintf("%s on %s", o.Branch, o.RepositoryIdentity),
			Kind:       notify.KindSuccess,
			Repository: o.RepositoryIdentity,
		}
	}
}

func (h *Handler) openFromPath(ctx context.Context, log zerolog.Logger, action model.OpenRepositoryFromPath) error {
	log.Info().Str("path", action.LocalPath).Msg("add local repository")

	repo, err := h.engine.Open(ctx, action.LocalPath)
	if err != nil {
		log.Error().Err(err).Msg("not a repository")
		h.show(ctx, notify.Notification{
			Title: "Could not add repository",
			Body:  err.Error(),
			Kind:  notify.KindError,
		})
		return err
	}

	identity := filepath.Base(repo.Root())
	if remote, err := repo.RemoteURL(ctx, "origin"); err == nil {
		identity = checkout.RemoteIdentity(remote, h.cfg.HostPrefixes)
	} else {
		log.Debug().Err(err).Msg("no origin remote, using directory name")
	}

	if err := h.locator.Remember(ctx, identity, repo.Root()); err != nil {
		log.Error().Err(err).Msg("failed to remember repository")
		h.show(ctx, notify.Notification{
			Title:      "Could not add repository",
			Body:       err.Error(),
			Kind:       notify.KindError,
			Repository: identity,
		})
		return err
	}

	h.show(ctx, notify.Notification{
		Title:      "Added repository",
		Body:       fmt.Sprintf("%s at %s", identity, repo.Root()),
		Kind:       notify.KindSuccess,
		Repository: identity,
	})
	return nil
}
