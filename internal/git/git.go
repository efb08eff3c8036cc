// Package git runs the git operations GHOpen needs through the git CLI.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrNotRepository is returned when a path is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")
	// ErrGitNotFound is returned when no git executable can be located.
	ErrGitNotFound = errors.New("git executable not found")
	// ErrNoRemote is returned when the requested remote is not configured.
	ErrNoRemote = errors.New("remote not configured")
	// ErrOptionRef is returned for refs git would parse as a command-line option.
	ErrOptionRef = errors.New("ref starts with '-'")
)

// CheckRef rejects refs that git would read as an option rather than a name.
func CheckRef(ref string) error {
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("%w: %q", ErrOptionRef, ref)
	}
	return nil
}

// Engine opens repositories.
type Engine interface {
	Open(ctx context.Context, path string) (Repository, error)
}

// Repository is a handle on one local work tree.
type Repository interface {
	// Root returns the top-level directory of the work tree.
	Root() string
	// Checkout switches the work tree to ref.
	Checkout(ctx context.Context, ref string) error
	// CurrentBranch returns the checked out branch, or "HEAD" when detached.
	CurrentBranch(ctx context.Context) (string, error)
	// RemoteURL returns the fetch URL of the named remote.
	RemoteURL(ctx context.Context, name string) (string, error)
}

// CommandError describes a git invocation that exited unsuccessfully.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CLI implements Engine with the git executable.
type CLI struct {
	gitPath string
}

// NewCLI creates an engine. An empty gitPath looks git up on PATH.
func NewCLI(gitPath string) *CLI {
	return &CLI{gitPath: gitPath}
}

// Open verifies that path is inside a work tree and returns a handle on its root.
func (c *CLI) Open(ctx context.Context, path string) (Repository, error) {
	bin, err := c.binary()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}

	out, err := run(ctx, bin, abs, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}

	return &cliRepository{git: bin, root: filepath.Clean(out)}, nil
}

func (c *CLI) binary() (string, error) {
	if c.gitPath != "" {
		if path, ok := resolveExecutablePath(c.gitPath); ok {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrGitNotFound, c.gitPath)
	}
	if path, ok := resolveExecutablePath("git"); ok {
		return path, nil
	}
	return "", ErrGitNotFound
}

type cliRepository struct {
	git  string
	root string
}

func (r *cliRepository) Root() string {
	return r.root
}

func (r *cliRepository) Checkout(ctx context.Context, ref string) error {
	if err := CheckRef(ref); err != nil {
		return err
	}
	// "--" keeps a ref from being read as a path.
	_, err := run(ctx, r.git, r.root, "checkout", ref, "--")
	return err
}

func (r *cliRepository) CurrentBranch(ctx context.Context) (string, error) {
	return run(ctx, r.git, r.root, "rev-parse", "--abbrev-ref", "HEAD")
}

func (r *cliRepository) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := run(ctx, r.git, r.root, "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, name)
	}
	return out, nil
}

// run executes git in dir and returns trimmed stdout, or a *CommandError
// carrying the combined output.
func run(ctx context.Context, bin, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return "", &CommandError{Args: args, Output: output, Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}
