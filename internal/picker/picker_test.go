package picker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyvibe/ghopen/internal/model"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"github/DankNeon/meta/.git",
		"github/DankNeon/meta/sub/.git", // nested clone is not reported
		"github/o/r/.git",
		"notes/plain",
		".cache/hidden/.git",
		"node_modules/dep/.git",
		"a/b/c/d/too-deep/.git",
	)
	// git worktrees use a .git file instead of a directory
	mkdirs(t, root, "worktrees/feature")
	require.NoError(t, os.WriteFile(filepath.Join(root, "worktrees/feature/.git"), []byte("gitdir: x"), 0644))

	got := Discover([]string{root}, 3)
	assert.Equal(t, []string{
		filepath.Join(root, "github/DankNeon/meta"),
		filepath.Join(root, "github/o/r"),
		filepath.Join(root, "worktrees/feature"),
	}, got)
}

func TestDiscoverMissingRoot(t *testing.T) {
	assert.Empty(t, Discover([]string{filepath.Join(t.TempDir(), "missing")}, 2))
}

func TestPathCompleterListsDirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "alpha", "alpine", "beta", ".hidden")
	require.NoError(t, os.WriteFile(filepath.Join(root, "alfile"), nil, 0644))

	c := NewPathCompleter(nil)
	assert.Equal(t, []string{
		filepath.Join(root, "alpha") + "/",
		filepath.Join(root, "alpine") + "/",
	}, c.Complete(filepath.Join(root, "al")))

	assert.Len(t, c.Complete(root+"/"), 3)
}

func TestPathCompleterDefaultsIncludeRecent(t *testing.T) {
	c := NewPathCompleter([]string{"/srv/repos/one"})
	got := c.Complete("")
	require.NotEmpty(t, got)
	assert.Equal(t, "/srv/repos/one/", got[0])
}

func TestPathCompleterFallsBackToRecent(t *testing.T) {
	c := NewPathCompleter([]string{"/nonexistent-root/repos/one", "/elsewhere"})
	assert.Equal(t, []string{"/nonexistent-root/repos/one"}, c.Complete("/nonexistent-root/re"))
}

type stubPicker struct {
	path  string
	err   error
	calls int
}

func (s *stubPicker) PromptForDirectory(context.Context, string) (string, error) {
	s.calls++
	return s.path, s.err
}

func TestFuzzyPickerSelectsCandidate(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "one/.git", "two/.git")

	p := NewFuzzyPicker([]string{root}, 2, nil)
	p.find = func(_ context.Context, candidates []string, _ string) (int, error) {
		require.Len(t, candidates, 2)
		return 1, nil
	}

	got, err := p.PromptForDirectory(context.Background(), "Select o/r")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "two"), got)
}

func TestFuzzyPickerAbort(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "one/.git")

	p := NewFuzzyPicker([]string{root}, 2, nil)
	p.find = func(context.Context, []string, string) (int, error) {
		return 0, fuzzyfinder.ErrAbort
	}

	_, err := p.PromptForDirectory(context.Background(), "Select o/r")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFuzzyPickerFallsBackWhenNothingFound(t *testing.T) {
	fallback := &stubPicker{path: "/tmp/repo"}
	p := NewFuzzyPicker([]string{t.TempDir()}, 2, fallback)
	p.find = func(context.Context, []string, string) (int, error) {
		return 0, errors.New("must not be called")
	}

	got, err := p.PromptForDirectory(context.Background(), "Select o/r")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo", got)
	assert.Equal(t, 1, fallback.calls)
}

func TestNewSelectsMode(t *testing.T) {
	assert.IsType(t, &DialogPicker{}, New(Options{Mode: model.PickerDialog}))
	assert.IsType(t, &FuzzyPicker{}, New(Options{Mode: model.PickerFuzzy}))
	assert.IsType(t, &DialogPicker{}, New(Options{}))
}

func typeText(m dialogModel, text string) dialogModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(dialogModel)
}

func press(m dialogModel, key tea.KeyType) (dialogModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(dialogModel), cmd
}

func TestDialogModelSubmitsExistingDirectory(t *testing.T) {
	dir := t.TempDir()

	m := typeText(newDialogModel("Select o/r", nil), dir)
	m, cmd := press(m, tea.KeyEnter)

	assert.True(t, m.submitted)
	assert.NotNil(t, cmd)
	assert.Equal(t, dir, m.Value())
}

func TestDialogModelRejectsMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	m := typeText(newDialogModel("Select o/r", nil), missing)
	m, cmd := press(m, tea.KeyEnter)

	assert.False(t, m.submitted)
	assert.Nil(t, cmd)
	assert.Contains(t, m.errMsg, "Not a directory")
	assert.Contains(t, m.View(), "Not a directory")
}

func TestDialogModelEscCancels(t *testing.T) {
	m, cmd := press(newDialogModel("Select o/r", nil), tea.KeyEsc)
	assert.True(t, m.cancelled)
	assert.NotNil(t, cmd)
}

func TestDialogModelTabCompletes(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "project")

	m := typeText(newDialogModel("Select o/r", nil), filepath.Join(root, "pro"))
	m, _ = press(m, tea.KeyTab)

	assert.True(t, m.showSuggestions)
	assert.Equal(t, filepath.Join(root, "project")+"/", m.input.Value())
}
