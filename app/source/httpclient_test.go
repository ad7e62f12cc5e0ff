package source

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryStopsAfterAttemptLimit(t *testing.T) {
	calls := 0
	failure := errors.New("connection refused")

	err := retry(context.Background(), 3, time.Millisecond, 4*time.Millisecond, func() error {
		calls++
		return failure
	})

	if !errors.Is(err, failure) {
		t.Errorf("Expected last attempt error, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got: %d", calls)
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0

	err := retry(context.Background(), 3, time.Millisecond, 4*time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got: %d", calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retry(ctx, 3, time.Minute, time.Minute, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected cancellation during backoff after 1 attempt, got: %d", calls)
	}
}

func TestRetrySingleAttemptRunsOnce(t *testing.T) {
	calls := 0
	failure := errors.New("permanent")

	err := retry(context.Background(), 1, time.Minute, time.Minute, func() error {
		calls++
		return failure
	})

	if !errors.Is(err, failure) {
		t.Errorf("Expected error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt, got: %d", calls)
	}
}
