package locator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyvibe/ghopen/internal/model"
	"github.com/lazyvibe/ghopen/internal/picker"
	"github.com/lazyvibe/ghopen/internal/store"
)

type fakePicker struct {
	path    string
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (f *fakePicker) PromptForDirectory(ctx context.Context, _ string) (string, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.path, f.err
}

func newStore(t *testing.T) *store.JSONStore {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestResolveKnownIdentityNeverPrompts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Put(ctx, model.NewRepository("o/r", "/tmp/repo")))

	p := &fakePicker{path: "/elsewhere"}
	l := New(s, p, zerolog.Nop())

	for i := 0; i < 2; i++ {
		got, err := l.Resolve(ctx, "o/r")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/repo", got)
	}
	assert.Zero(t, p.calls.Load())
}

func TestResolveUnknownIdentityPromptsAndPersists(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := &fakePicker{path: "/tmp/repo"}
	l := New(s, p, zerolog.Nop())

	got, err := l.Resolve(ctx, "DankNeon/meta")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo", got)

	stored, err := s.Get(ctx, "DankNeon/meta")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo", stored.Path)

	got, err = l.Resolve(ctx, "DankNeon/meta")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo", got)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestResolveCancelledPicker(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	l := New(s, &fakePicker{err: picker.ErrCancelled}, zerolog.Nop())

	_, err := l.Resolve(ctx, "o/r")
	require.ErrorIs(t, err, ErrNoPathSelected)

	_, err = s.Get(ctx, "o/r")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveEmptySelection(t *testing.T) {
	l := New(newStore(t), &fakePicker{path: "  "}, zerolog.Nop())

	_, err := l.Resolve(context.Background(), "o/r")
	assert.ErrorIs(t, err, ErrNoPathSelected)
}

func TestResolvePickerFailureKeepsCause(t *testing.T) {
	cause := errors.New("no terminal")
	l := New(newStore(t), &fakePicker{err: cause}, zerolog.Nop())

	_, err := l.Resolve(context.Background(), "o/r")
	assert.ErrorIs(t, err, ErrNoPathSelected)
	assert.ErrorIs(t, err, cause)
}

func TestResolveCoalescesConcurrentPrompts(t *testing.T) {
	ctx := context.Background()
	p := &fakePicker{path: "/tmp/repo", release: make(chan struct{})}
	l := New(newStore(t), p, zerolog.Nop())

	const callers = 4
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = l.Resolve(ctx, "o/r")
		}(i)
	}

	// Let every caller reach the in-flight prompt before answering it.
	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(p.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "/tmp/repo", results[i])
	}
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestRememberAndForget(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	l := New(s, &fakePicker{}, zerolog.Nop())

	require.NoError(t, l.Remember(ctx, "o/r", "/tmp/repo/"))
	got, err := s.Get(ctx, "o/r")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo", got.Path)

	require.NoError(t, l.Forget(ctx, "o/r"))
	_, err = s.Get(ctx, "o/r")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
