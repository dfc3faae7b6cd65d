package contact

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormStartsEditing(t *testing.T) {
	f := NewForm()

	assert.Equal(t, StateEditing, f.State())
	assert.Equal(t, Snapshot{}, f.Snapshot())
	assert.True(t, f.SubmittedAt().IsZero())
}

func TestSetEmailKeepsValueVerbatim(t *testing.T) {
	f := NewForm()

	for _, typed := range []string{"o", "op", "ops@", "  ops@example.com ", "not valid at all"} {
		f.SetEmail(typed)
		assert.Equal(t, typed, f.Snapshot().Email)
		assert.Equal(t, StateEditing, f.State())
	}
}

func TestSubmitValidEmail(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var got []Request
	f := NewForm(
		WithClock(func() time.Time { return fixed }),
		WithNotifier(NotifierFunc(func(_ context.Context, req Request) error {
			got = append(got, req)
			return nil
		})),
	)

	f.SetEmail(" ops@example.com ")
	done, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, done)

	assert.Equal(t, StateSubmitted, f.State())
	assert.Equal(t, fixed, f.SubmittedAt())
	require.Len(t, got, 1)
	assert.Equal(t, "ops@example.com", got[0].Email)
	assert.Equal(t, fixed, got[0].SubmittedAt)
}

func TestSubmitRejectsInvalidEmail(t *testing.T) {
	for _, value := range []string{"", "   ", "ops", "ops@", "@example.com", "a b@example.com"} {
		t.Run(value, func(t *testing.T) {
			called := false
			f := NewForm(WithNotifier(NotifierFunc(func(context.Context, Request) error {
				called = true
				return nil
			})))

			f.SetEmail(value)
			done, err := f.Submit(context.Background())

			assert.ErrorIs(t, err, ErrInvalidEmail)
			assert.False(t, done)
			assert.Equal(t, StateEditing, f.State())
			assert.Equal(t, value, f.Snapshot().Email)
			assert.False(t, called)
		})
	}
}

func TestSubmittedIsTerminal(t *testing.T) {
	var calls int32
	f := NewForm(WithNotifier(NotifierFunc(func(context.Context, Request) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})))

	f.SetEmail("ops@example.com")
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	before := f.Snapshot()

	f.SetEmail("other@example.com")
	f.SetEmail("")
	done, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, done)

	assert.Equal(t, before, f.Snapshot())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNotifierFailureDoesNotBlockTransition(t *testing.T) {
	f := NewForm(WithNotifier(NotifierFunc(func(context.Context, Request) error {
		return errors.New("backend down")
	})))

	f.SetEmail("ops@example.com")
	done, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, StateSubmitted, f.State())
}

func TestConcurrentSubmitTransitionsOnce(t *testing.T) {
	var calls int32
	f := NewForm(WithNotifier(NotifierFunc(func(context.Context, Request) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})))
	f.SetEmail("ops@example.com")

	var transitions int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if done, _ := f.Submit(context.Background()); done {
				atomic.AddInt32(&transitions, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&transitions))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, StateSubmitted, f.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "submitted", StateSubmitted.String())
	assert.Equal(t, "unknown", State(7).String())
}
