package timeutils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelays(t *testing.T) {
	assert.Nil(t, FixedDelays(0, time.Second))
	assert.Equal(t, []time.Duration{0}, FixedDelays(1, time.Second))
	assert.Equal(t, []time.Duration{time.Second, time.Second, 0}, FixedDelays(3, time.Second))
}

func TestRetrySucceedsOnLaterAttempt(t *testing.T) {
	attempts := 0
	res, err := Retry(
		context.Background(),
		FixedDelays(3, time.Millisecond),
		func(_ context.Context) (int, error) {
			attempts++
			if attempts < 3 {
				return 0, errors.New("transient")
			}
			return 42, nil
		},
		func(_ int, err error) bool { return err != nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 42, res)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsBudget(t *testing.T) {
	attempts := 0
	_, err := Retry(
		context.Background(),
		FixedDelays(3, time.Millisecond),
		func(_ context.Context) (int, error) {
			attempts++
			return 0, errors.New("always failing")
		},
		func(_ int, err error) bool { return err != nil },
	)
	assert.ErrorIs(t, err, ErrAllAttemptsFailed)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsOnFinalError(t *testing.T) {
	terminal := errors.New("terminal")
	attempts := 0
	_, err := Retry(
		context.Background(),
		FixedDelays(3, time.Millisecond),
		func(_ context.Context) (int, error) {
			attempts++
			return 0, terminal
		},
		func(_ int, err error) bool { return !errors.Is(err, terminal) },
	)
	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, attempts)
}

func TestRetryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Retry(
		ctx,
		FixedDelays(3, time.Millisecond),
		func(_ context.Context) (int, error) { return 0, errors.New("never final") },
		func(_ int, err error) bool { return true },
	)
	assert.ErrorIs(t, err, context.Canceled)
}
