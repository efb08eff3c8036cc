// Package picker lets the user choose the local clone for a repository.
package picker

import (
	"context"
	"errors"

	"github.com/lazyvibe/ghopen/internal/model"
)

// ErrCancelled is returned when the user dismisses the picker.
var ErrCancelled = errors.New("selection cancelled")

// PathPicker asks the user for a directory. Implementations block until the
// user answers or ctx is done.
type PathPicker interface {
	PromptForDirectory(ctx context.Context, prompt string) (string, error)
}

// Options configures the pickers created by New.
type Options struct {
	// Mode selects the picker implementation.
	Mode model.PickerMode
	// SearchRoots are scanned for git clones in fuzzy mode.
	SearchRoots []string
	// MaxDepth bounds the clone discovery walk.
	MaxDepth int
	// RecentPaths seed the dialog's completion suggestions.
	RecentPaths []string
}

// New returns the picker for opts.Mode, defaulting to the dialog.
func New(opts Options) PathPicker {
	dialog := NewDialogPicker(opts.RecentPaths)
	if opts.Mode == model.PickerFuzzy {
		return NewFuzzyPicker(opts.SearchRoots, opts.MaxDepth, dialog)
	}
	return dialog
}
