package shutdown

import (
	"context"
	"testing"
	"time"

	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/logger"
)

func TestShutdown_RunsInReverseOrder(t *testing.T) {
	h := New(time.Second, logger.NewWithLevel("error"))

	var order []string
	h.Register("cache", func(ctx context.Context) error {
		order = append(order, "cache")
		return nil
	})
	h.Register("service", func(ctx context.Context) error {
		order = append(order, "service")
		return nil
	})
	h.Register("server", func(ctx context.Context) error {
		order = append(order, "server")
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}

	want := []string{"server", "service", "cache"}
	if len(order) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
			break
		}
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	h := New(time.Second, logger.NewWithLevel("error"))

	calls := 0
	h.Register("once", func(ctx context.Context) error {
		calls++
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Fatalf("first shutdown failed: %v", err)
	}
	if err := h.Shutdown(); err != nil {
		t.Fatalf("second shutdown failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the sequence to run once, ran %d times", calls)
	}
}

func TestShutdown_ReturnsFirstError(t *testing.T) {
	h := New(time.Second, logger.NewWithLevel("error"))

	h.Register("first", func(ctx context.Context) error {
		return errors.New(errors.CodeInternal, "first failed")
	})
	h.Register("second", func(ctx context.Context) error {
		return errors.New(errors.CodeInternal, "second failed")
	})

	err := h.Shutdown()
	if err == nil {
		t.Fatal("expected an error")
	}
	// LIFO: "second" runs first, so its error wins
	if err.Error() != "[INTERNAL_ERROR] second failed" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestShutdown_DoneClosedOnTrigger(t *testing.T) {
	h := New(time.Second, logger.NewWithLevel("error"))

	go func() {
		h.Trigger()
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	select {
	case <-h.Done():
	default:
		t.Error("expected done channel to be closed")
	}
}
