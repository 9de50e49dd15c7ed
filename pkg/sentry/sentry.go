// Package sentry wraps the Sentry SDK for error tracking of failures the
// concierge swallows instead of returning to the caller.
package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

type Config struct {
	// DSN is the project DSN. Empty disables reporting.
	DSN         string
	Environment string
	Release     string
	// SampleRate controls error sampling (0.0-1.0, default 1.0).
	SampleRate float64
	Debug      bool
}

// Initialize sets up the SDK. An empty DSN leaves Sentry disabled and
// returns nil.
func Initialize(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Reporter sends errors to the hub bound to the request context, falling
// back to the global hub.
type Reporter struct{}

func (Reporter) CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
