package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			err:      New(CodeOfflineUnavailable, "offline and no cached watchlist available"),
			expected: "[OFFLINE_UNAVAILABLE] offline and no cached watchlist available",
		},
		{
			name:     "with wrapped error",
			err:      Wrap(fmt.Errorf("connection refused"), CodeUnreachable, "store request failed"),
			expected: "[UNREACHABLE] store request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("dial tcp: i/o timeout")
	err := Unreachable("store request failed", inner)

	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to be reachable via errors.Is")
	}
}

func TestRemote_DuplicateSpecialCase(t *testing.T) {
	dup := Remote(DuplicateViolationCode, "duplicate key value violates unique constraint")
	if dup.Code != CodeDuplicate {
		t.Errorf("expected code %s for provider code 23505, got %s", CodeDuplicate, dup.Code)
	}
	if !IsDuplicate(dup) {
		t.Error("expected IsDuplicate to be true")
	}

	other := Remote("42501", "permission denied")
	if other.Code != CodeRemote {
		t.Errorf("expected generic code %s, got %s", CodeRemote, other.Code)
	}
	if IsDuplicate(other) {
		t.Error("expected IsDuplicate to be false for non-duplicate provider code")
	}
	if other.Context["provider_code"] != "42501" {
		t.Errorf("expected provider code in context, got %v", other.Context["provider_code"])
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"app error", Unauthenticated("no session"), CodeUnauthenticated},
		{"wrapped app error", fmt.Errorf("outer: %w", OfflineUnavailable("watchlist")), CodeOfflineUnavailable},
		{"plain error", fmt.Errorf("plain"), CodeUnknown},
		{"nil-ish plain", errors.New(""), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Unreachable("timeout", nil)) {
		t.Error("unreachable errors should be retryable")
	}
	if !IsRetryable(New(CodeRateLimited, "catalog proxy rate limit exceeded")) {
		t.Error("rate-limited errors should be retryable")
	}
	if IsRetryable(Unauthenticated("no session")) {
		t.Error("unauthenticated errors must never be retried")
	}
	if IsRetryable(Remote(DuplicateViolationCode, "duplicate")) {
		t.Error("duplicate inserts must never be retried")
	}
	if IsRetryable(OfflineUnavailable("watchlist")) {
		t.Error("offline errors are only retried by the reconnect hook")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CodeRemote, "store rejected operation").
		WithContext("namespace", "watchlist").
		WithContext("movie_id", 603)

	if err.Context["namespace"] != "watchlist" {
		t.Errorf("expected namespace context, got %v", err.Context["namespace"])
	}
	if err.Context["movie_id"] != 603 {
		t.Errorf("expected movie_id context, got %v", err.Context["movie_id"])
	}
}
