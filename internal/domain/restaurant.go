package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Templates maps a language to a message template. It is stored as a JSON
// document column.
type Templates map[Language]string

func (t Templates) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal templates: %w", err)
	}
	return string(data), nil
}

func (t *Templates) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = Templates{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported templates column type %T", src)
	}

	out := Templates{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("failed to unmarshal templates: %w", err)
		}
	}
	*t = out
	return nil
}

// Restaurant is the read-only record the concierge resolves a trigger name to.
// TriggerName is stored normalized and is unique.
type Restaurant struct {
	ID               int64     `db:"id" json:"id"`
	TriggerName      string    `db:"trigger_name" json:"triggerName"`
	Name             string    `db:"name" json:"name"`
	WelcomeTemplates Templates `db:"welcome_templates" json:"welcome"`
	ReviewTemplates  Templates `db:"review_templates" json:"review"`
	ReviewDelayHours *float64  `db:"review_delay_hours" json:"reviewDelayHours,omitempty"`
	MenuURL          *string   `db:"menu_url" json:"menuUrl,omitempty"`
	WifiPassword     *string   `db:"wifi_password" json:"wifiPassword,omitempty"`
	ReviewLink       *string   `db:"review_link" json:"reviewLink,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// DelayHours returns the configured follow-up delay, or 0 when unset so the
// caller applies its own default.
func (r *Restaurant) DelayHours() float64 {
	if r.ReviewDelayHours == nil {
		return 0
	}
	return *r.ReviewDelayHours
}

func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
