package environments

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "x")
	t.Setenv("TEST_FLOAT", "1.5")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_DURATION", "90s")

	if got := GetEnvAsInt("TEST_INT", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := GetEnvAsInt("TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := GetEnvAsFloat("TEST_FLOAT", 2); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if got := GetEnvAsBool("TEST_BOOL", true); got {
		t.Fatal("expected false")
	}
	if got := GetEnvAsDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := GetEnv("TEST_MISSING_KEY", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DELIVERY_SCHEDULING_MODE", "outbox")
	t.Setenv("CONCIERGE_DEFAULT_DELAY_HOURS", "3.5")

	cfg := Load()

	if cfg.Delivery.SchedulingMode != SchedulingOutbox {
		t.Fatalf("expected outbox mode, got %q", cfg.Delivery.SchedulingMode)
	}
	if cfg.Concierge.DefaultDelayHours != 3.5 {
		t.Fatalf("expected 3.5h delay, got %v", cfg.Concierge.DefaultDelayHours)
	}
	if cfg.Concierge.QuietEndHour != 8 || cfg.Concierge.QuietResumeHour != 10 {
		t.Fatalf("unexpected quiet hours: %+v", cfg.Concierge)
	}
	if cfg.Twilio.BaseURL != "https://api.twilio.com" {
		t.Fatalf("unexpected base url %q", cfg.Twilio.BaseURL)
	}
}
