// Package checkout opens a requested repository and checks out the requested
// branch or pull request ref.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/lazyvibe/ghopen/internal/git"
	"github.com/lazyvibe/ghopen/internal/model"
)

// Resolver maps a repository identity to a local path.
type Resolver interface {
	Resolve(ctx context.Context, identity string) (string, error)
}

// Orchestrator runs checkout requests.
type Orchestrator struct {
	resolver     Resolver
	engine       git.Engine
	hostPrefixes []string
	log          zerolog.Logger
}

// NewOrchestrator creates an Orchestrator. Nil hostPrefixes means
// DefaultHostPrefixes.
func NewOrchestrator(resolver Resolver, engine git.Engine, hostPrefixes []string, log zerolog.Logger) *Orchestrator {
	if hostPrefixes == nil {
		hostPrefixes = DefaultHostPrefixes
	}
	return &Orchestrator{
		resolver:     resolver,
		engine:       engine,
		hostPrefixes: hostPrefixes,
		log:          log.With().Str("component", "checkout").Logger(),
	}
}

// Run resolves the repository for action and checks out its branch.
// Resolution and open failures are returned as errors; a rejected checkout is
// reported through the outcome.
func (o *Orchestrator) Run(ctx context.Context, action model.OpenRepositoryFromURL) (model.CheckoutOutcome, error) {
	identity := RepositoryIdentity(action.RepoPath, o.hostPrefixes)
	outcome := model.CheckoutOutcome{
		Branch:             action.Branch,
		RepositoryIdentity: identity,
		FilePath:           action.FilePath,
	}

	path, err := o.resolver.Resolve(ctx, identity)
	if err != nil {
		return outcome, err
	}
	outcome.Path = path

	repo, err := o.engine.Open(ctx, path)
	if err != nil {
		return outcome, fmt.Errorf("open %s at %s: %w", identity, path, err)
	}

	log := o.log.With().Str("identity", identity).Str("path", repo.Root()).Logger()

	if action.Branch == "" {
		log.Info().Msg("no branch requested, nothing to check out")
		outcome.Status = model.OutcomeSuccess
		return outcome, nil
	}

	err = git.CheckRef(action.Branch)
	if err == nil {
		err = repo.Checkout(ctx, action.Branch)
	}
	if err != nil {
		log.Warn().Err(err).Str("branch", action.Branch).Msg("checkout failed")
		outcome.Status = model.OutcomeFailure
		outcome.ErrorMessage = strings.TrimSpace(ansi.Strip(err.Error()))
		return outcome, nil
	}

	log.Info().Str("branch", action.Branch).Msg("checked out")
	outcome.Status = model.OutcomeSuccess
	return outcome, nil
}
