package sentry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInitialize_EmptyDSN(t *testing.T) {
	if err := Initialize(Config{}); err != nil {
		t.Fatalf("expected nil error for empty DSN, got %v", err)
	}
}

func TestInitialize_InvalidDSN(t *testing.T) {
	if err := Initialize(Config{DSN: "not a dsn"}); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}

func TestInitialize_ValidDSN(t *testing.T) {
	// Sentry keeps global state, so this test is not parallel.
	err := Initialize(Config{
		DSN:         "https://public@example.com/1",
		Environment: "test",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if !IsEnabled() {
		t.Fatal("expected IsEnabled() after initialization")
	}

	Reporter{}.CaptureException(context.Background(), errors.New("boom"))
	Reporter{}.CaptureException(context.Background(), nil)

	Flush(100 * time.Millisecond)
}
