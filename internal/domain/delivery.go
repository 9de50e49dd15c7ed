package domain

import "time"

type DeliveryStatus string

const (
	// StatusScheduled rows wait in the outbox until send_at.
	StatusScheduled DeliveryStatus = "scheduled"
	// StatusSubmitted rows were handed to the provider's own scheduler.
	StatusSubmitted DeliveryStatus = "submitted"
	StatusSent      DeliveryStatus = "sent"
	StatusFailed    DeliveryStatus = "failed"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusSubmitted, StatusSent, StatusFailed:
		return true
	}
	return false
}

type DeliveryKind string

const (
	KindReply       DeliveryKind = "reply"
	KindFollowUp    DeliveryKind = "followup"
	KindInstruction DeliveryKind = "instruction"
	KindNotFound    DeliveryKind = "not_found"
)

// Delivery is one outbound chat message as recorded in the delivery log.
type Delivery struct {
	ID          int64          `db:"id" json:"id"`
	EventID     string         `db:"event_id" json:"eventId"`
	Kind        DeliveryKind   `db:"kind" json:"kind"`
	Recipient   string         `db:"recipient" json:"recipient"`
	Body        string         `db:"body" json:"body"`
	Status      DeliveryStatus `db:"status" json:"status"`
	ProviderSID *string        `db:"provider_sid" json:"providerSid,omitempty"`
	SendAt      *time.Time     `db:"send_at" json:"sendAt,omitempty"`
	SentAt      *time.Time     `db:"sent_at" json:"sentAt,omitempty"`
	LastError   *string        `db:"last_error" json:"lastError,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// OutboundMessage is what the orchestrator asks the transport to deliver.
type OutboundMessage struct {
	EventID string
	Kind    DeliveryKind
	To      string
	Body    string
}

// TransportReceipt is the provider's acknowledgement of a send or schedule call.
type TransportReceipt struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type SentDeliveryCache struct {
	ProviderSID string    `json:"providerSid"`
	SentAt      time.Time `json:"sentAt"`
}

type DeliveryStats struct {
	Scheduled int64 `db:"scheduled" json:"scheduled"`
	Submitted int64 `db:"submitted" json:"submitted"`
	Sent      int64 `db:"sent" json:"sent"`
	Failed    int64 `db:"failed" json:"failed"`
}

func (s DeliveryStats) Total() int64 {
	return s.Scheduled + s.Submitted + s.Sent + s.Failed
}

type SendResult struct {
	DeliveryID  int64
	ProviderSID string
	Success     bool
	Error       error
	SentAt      time.Time
}
