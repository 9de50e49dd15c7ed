// Package delivery decides when the review follow-up goes out and hands it
// to the transport's delayed-send primitive.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

const (
	DefaultDelayHours    = 2.0
	defaultSubmitTimeout = 5 * time.Second
)

type scheduledSender interface {
	SendScheduled(ctx context.Context, msg domain.OutboundMessage, sendAt time.Time) (*domain.TransportReceipt, error)
}

type Config struct {
	QuietHours        QuietHours
	DefaultDelayHours float64
	SubmitTimeout     time.Duration
}

// Handle identifies a follow-up accepted by the transport.
type Handle struct {
	SID    string
	Status string
	SendAt time.Time
}

type Scheduler struct {
	sender       scheduledSender
	quiet        QuietHours
	defaultDelay float64
	timeout      time.Duration
}

func NewScheduler(sender scheduledSender, cfg Config) *Scheduler {
	delay := cfg.DefaultDelayHours
	if delay <= 0 {
		delay = DefaultDelayHours
	}

	timeout := cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}

	return &Scheduler{
		sender:       sender,
		quiet:        cfg.QuietHours,
		defaultDelay: delay,
		timeout:      timeout,
	}
}

// ComputeSendTime adds delayHours (or the default when not positive) to now
// and moves the result out of quiet hours.
func (s *Scheduler) ComputeSendTime(now time.Time, delayHours float64) time.Time {
	if delayHours <= 0 {
		delayHours = s.defaultDelay
	}
	return ComputeSendTime(now, delayHours, s.quiet)
}

func ComputeSendTime(now time.Time, delayHours float64, quiet QuietHours) time.Time {
	candidate := now.Add(time.Duration(delayHours * float64(time.Hour)))
	return quiet.Shift(candidate).UTC()
}

// SubmitDelayed schedules msg for sendAt. A failure here never affects a
// reply that was already sent.
func (s *Scheduler) SubmitDelayed(ctx context.Context, msg domain.OutboundMessage, sendAt time.Time) (Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	receipt, err := s.sender.SendScheduled(ctx, msg, sendAt.UTC())
	if err != nil {
		return Handle{}, fmt.Errorf("failed to schedule %s for %s: %w", msg.Kind, sendAt.UTC().Format(time.RFC3339), err)
	}

	return Handle{
		SID:    receipt.SID,
		Status: receipt.Status,
		SendAt: sendAt.UTC(),
	}, nil
}
