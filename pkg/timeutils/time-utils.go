package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAllAttemptsFailed = errors.New("all attempts failed")
)

// FixedDelays builds a schedule for Retry of attempts entries with an equal
// pause after every attempt but the last.
func FixedDelays(attempts int, delay time.Duration) []time.Duration {
	if attempts < 1 {
		return nil
	}
	delays := make([]time.Duration, attempts)
	for i := 0; i < attempts-1; i++ {
		delays[i] = delay
	}
	return delays
}

// Retry runs function once per entry in attemptDelays, sleeping the entry's
// delay between attempts. onFinished decides whether the result is final or
// the next attempt should run.
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	onFinished func(T, error) (needRetry bool),
) (T, error) {
	for _, delay := range attemptDelays {
		if ctx.Err() != nil {
			var res T
			return res, fmt.Errorf("retry canceled: %w", ctx.Err())
		}
		res, err := function(ctx)
		if !onFinished(res, err) {
			return res, err
		}
		err = SleepCtx(ctx, delay)
		if err != nil {
			var res T
			return res, err
		}
	}
	var res T
	return res, ErrAllAttemptsFailed
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
