package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts uint) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(2), func() error {
		calls++
		return errors.New("still failing")
	})

	assert.EqualError(t, err, "still failing")
	assert.Equal(t, 2, calls)
}

func TestDo_RetryIfStopsEarly(t *testing.T) {
	permanent := errors.New("bad request")
	cfg := fastConfig(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetry(t *testing.T) {
	var seen []uint
	cfg := fastConfig(3)
	cfg.OnRetry = func(n uint, _ error) { seen = append(seen, n) }

	_ = Do(context.Background(), cfg, func() error { return errors.New("x") })

	assert.Equal(t, []uint{0, 1, 2}, seen)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("once")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Config{MaxAttempts: 5, InitialDelay: time.Second, MaxDelay: time.Second}, func() error {
		return errors.New("x")
	})
	assert.Error(t, err)
}
