package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
)

// FuzzyPicker lets the user choose among git clones discovered under a set of
// search roots. When nothing is discovered it defers to a fallback picker.
type FuzzyPicker struct {
	roots    []string
	maxDepth int
	fallback PathPicker
	find     func(ctx context.Context, candidates []string, prompt string) (int, error)
}

// NewFuzzyPicker creates a fuzzy picker over clones found under roots.
func NewFuzzyPicker(roots []string, maxDepth int, fallback PathPicker) *FuzzyPicker {
	return &FuzzyPicker{
		roots:    roots,
		maxDepth: maxDepth,
		fallback: fallback,
		find:     findWithFuzzyFinder,
	}
}

// PromptForDirectory shows the discovered clones in a fuzzy finder.
func (p *FuzzyPicker) PromptForDirectory(ctx context.Context, prompt string) (string, error) {
	candidates := Discover(p.roots, p.maxDepth)
	if len(candidates) == 0 {
		if p.fallback == nil {
			return "", ErrCancelled
		}
		return p.fallback.PromptForDirectory(ctx, prompt)
	}

	idx, err := p.find(ctx, candidates, prompt)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrCancelled
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("select clone: %w", err)
	}
	return candidates[idx], nil
}

func findWithFuzzyFinder(ctx context.Context, candidates []string, prompt string) (int, error) {
	return fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return friendly(candidates[i])
		},
		fuzzyfinder.WithPromptString("clone> "),
		fuzzyfinder.WithHeader(prompt),
		fuzzyfinder.WithContext(ctx),
	)
}
