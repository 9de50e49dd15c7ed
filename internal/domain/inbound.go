package domain

import "time"

// InboundEvent is a single chat message delivered by the webhook. It lives
// for the duration of one webhook call.
type InboundEvent struct {
	ID                string
	RawBody           string
	FromAddress       string
	SenderDisplayName string
	ReceivedAt        time.Time
}

// EventState is a step of the per-event processing state machine.
type EventState string

const (
	StateReceived           EventState = "received"
	StateValidated          EventState = "validated"
	StateResolved           EventState = "resolved"
	StateReplied            EventState = "replied"
	StateScheduled          EventState = "scheduled"
	StateDone               EventState = "done"
	StateRejectedNoGreeting EventState = "rejected_no_greeting"
	StateRejectedNotFound   EventState = "rejected_not_found"
	// StateFailed marks an event whose immediate reply could not be produced
	// or sent. The webhook is still acknowledged.
	StateFailed EventState = "failed"
)

func (s EventState) Terminal() bool {
	switch s {
	case StateDone, StateRejectedNoGreeting, StateRejectedNotFound, StateFailed:
		return true
	}
	return false
}
