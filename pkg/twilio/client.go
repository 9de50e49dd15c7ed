// Package twilio is a thin client for the Twilio Messages API, used as the
// WhatsApp delivery transport.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

const (
	whatsappPrefix = "whatsapp:"

	// Twilio only accepts fixed schedules between 15 minutes and 35 days ahead.
	MinScheduleAhead = 15 * time.Minute
	MaxScheduleAhead = 35 * 24 * time.Hour
)

var ErrSchedulingUnavailable = errors.New("native scheduling requires a messaging service sid")

type Client struct {
	httpClient          *resty.Client
	limiter             *rate.Limiter
	accountSID          string
	from                string
	messagingServiceSID string
}

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type errorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func NewClient(cfg environments.TwilioConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only throttled requests are retried; a 5xx may already have been accepted.
			return err == nil && r.StatusCode() == http.StatusTooManyRequests
		}).
		SetHeader("Accept", "application/json")

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	return &Client{
		httpClient:          client,
		limiter:             rate.NewLimiter(limit, burst),
		accountSID:          cfg.AccountSID,
		from:                cfg.FromNumber,
		messagingServiceSID: cfg.MessagingServiceSID,
	}
}

// SupportsScheduling reports whether the provider-side scheduler can be used.
func (c *Client) SupportsScheduling() bool {
	return c.messagingServiceSID != ""
}

// CanScheduleAt reports whether a message due at sendAt can be handed to
// Twilio's scheduler now.
func (c *Client) CanScheduleAt(now, sendAt time.Time) bool {
	return c.SupportsScheduling() && SchedulableAt(now, sendAt)
}

// SchedulableAt reports whether sendAt is inside the window Twilio accepts
// for fixed schedules, relative to now.
func SchedulableAt(now, sendAt time.Time) bool {
	ahead := sendAt.Sub(now)
	return ahead >= MinScheduleAhead && ahead <= MaxScheduleAhead
}

func (c *Client) SendNow(ctx context.Context, to, body string) (*domain.TransportReceipt, error) {
	form := map[string]string{
		"To":   Address(to),
		"Body": body,
	}
	if c.messagingServiceSID != "" {
		form["MessagingServiceSid"] = c.messagingServiceSID
	} else {
		form["From"] = Address(c.from)
	}

	return c.createMessage(ctx, "send", form)
}

// SendScheduled asks Twilio to deliver the message at sendAt.
func (c *Client) SendScheduled(ctx context.Context, to, body string, sendAt time.Time) (*domain.TransportReceipt, error) {
	if !c.SupportsScheduling() {
		return nil, &domain.TransportError{Op: "schedule", Err: ErrSchedulingUnavailable}
	}

	form := map[string]string{
		"To":                  Address(to),
		"Body":                body,
		"MessagingServiceSid": c.messagingServiceSID,
		"ScheduleType":        "fixed",
		"SendAt":              sendAt.UTC().Format(time.RFC3339),
	}

	return c.createMessage(ctx, "schedule", form)
}

func (c *Client) createMessage(ctx context.Context, op string, form map[string]string) (*domain.TransportReceipt, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}

	var result messageResponse
	var apiErr errorResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}

	logger.Debugf("Twilio %s request completed in %v (status: %d)", op, time.Since(startTime), resp.StatusCode())

	if resp.StatusCode() != http.StatusCreated {
		message := apiErr.Message
		if message == "" {
			message = resp.String()
		}
		return nil, &domain.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Code:       apiErr.Code,
			Message:    message,
		}
	}

	return &domain.TransportReceipt{SID: result.SID, Status: result.Status}, nil
}

// Address converts a phone number to Twilio's WhatsApp address form.
func Address(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return whatsappPrefix + number
}
