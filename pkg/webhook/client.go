// Package webhook posts operational alerts to an HTTP endpoint.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

// Alert is the JSON payload posted when the outbox dispatcher keeps failing.
type Alert struct {
	Alert               string `json:"alert"`
	RunNumber           int64  `json:"runNumber"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	DeliveriesInBatch   int    `json:"deliveriesInBatch"`
	Timestamp           string `json:"timestamp"`
	Message             string `json:"message"`
}

type Client struct {
	httpClient *resty.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client}
}

func (c *Client) SendAlert(ctx context.Context, url string, alert Alert) error {
	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post(url)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}

	logger.Infof("Alert request to %s completed in %v (status: %d)", url, time.Since(startTime), resp.StatusCode())

	if resp.IsError() {
		return fmt.Errorf("alert webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
