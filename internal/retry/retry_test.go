package retry

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func alwaysRetryable(error) bool { return true }

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return nil
	}, alwaysRetryable)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient failure %d", attempts)
		}
		return nil
	}, alwaysRetryable)

	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	permanent := fmt.Errorf("permanent failure")
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return permanent
	}, func(error) bool { return false })

	if err != permanent {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected no retries, got %d attempts", attempts)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return fmt.Errorf("always failing")
	}, alwaysRetryable)

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoWithResult_ReturnsValue(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", fmt.Errorf("transient")
		}
		return "payload", nil
	}, alwaysRetryable)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "payload" {
		t.Errorf("expected 'payload', got %q", result)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastConfig()
	cfg.InitialBackoff = time.Second

	err := Do(ctx, cfg, func() error {
		return fmt.Errorf("failing")
	}, alwaysRetryable)

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWithJitter(t *testing.T) {
	base := 100 * time.Millisecond

	if got := withJitter(base, 0); got != base {
		t.Errorf("expected no jitter with zero fraction, got %v", got)
	}

	for i := 0; i < 50; i++ {
		got := withJitter(base, 0.1)
		if got < 90*time.Millisecond || got > 110*time.Millisecond {
			t.Fatalf("jittered backoff %v outside expected bounds", got)
		}
	}
}
