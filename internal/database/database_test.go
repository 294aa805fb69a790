package database

import (
	"testing"

	"github.com/moviemend/moviemend/internal/errors"
)

func TestHealthCheckBeforeInitialize(t *testing.T) {
	if db != nil {
		t.Skip("database already initialized by another test")
	}

	err := HealthCheck()
	if err == nil {
		t.Fatal("expected an error before Initialize")
	}
	if errors.GetErrorCode(err) != errors.CodeInternal {
		t.Errorf("expected internal error code, got %v", errors.GetErrorCode(err))
	}
}

func TestCloseBeforeInitialize(t *testing.T) {
	if db != nil {
		t.Skip("database already initialized by another test")
	}

	if err := Close(); err != nil {
		t.Errorf("expected closing an uninitialized database to be a no-op, got %v", err)
	}
}
