// Package scheduler runs the outbox dispatcher: a ticker that periodically
// sends follow-ups whose send time has passed.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
	"github.com/onurcolak/restaurant-concierge/pkg/webhook"
)

const (
	defaultInterval = time.Minute
	alertTimeout    = 10 * time.Second
)

// deliveryProcessor matches DeliveryService.ProcessDueDeliveries and lets us
// unit test the dispatcher with a small fake.
type deliveryProcessor interface {
	ProcessDueDeliveries(ctx context.Context) ([]domain.SendResult, error)
}

type alertSender interface {
	SendAlert(ctx context.Context, url string, alert webhook.Alert) error
}

type dispatchMetrics interface {
	RecordDispatch(outcome string, sent, failed int)
}

type Dispatcher struct {
	processor       deliveryProcessor
	alerts          alertSender
	metrics         dispatchMetrics
	interval        time.Duration
	alertWebhook    string
	alertThreshold  int // consecutive all-fail runs before alerting
	lastAlertSentAt time.Time

	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	lastRunAt        time.Time
	deliveriesSent   int64
	deliveriesFailed int64
	runsCount        int64

	consecutiveAllFailCount int
}

func NewDispatcher(
	processor deliveryProcessor,
	alerts alertSender,
	metrics dispatchMetrics,
	interval time.Duration,
) *Dispatcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Dispatcher{
		processor: processor,
		alerts:    alerts,
		metrics:   metrics,
		interval:  interval,
	}
}

func (d *Dispatcher) StartWithParams(
	ctx context.Context,
	interval time.Duration,
	alertWebhook string,
	alertThreshold int,
) error {
	d.mu.Lock()
	if interval > 0 {
		d.interval = interval
	}
	d.alertWebhook = alertWebhook
	d.alertThreshold = alertThreshold
	d.consecutiveAllFailCount = 0
	d.mu.Unlock()

	return d.Start(ctx)
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()

	if d.running {
		d.mu.Unlock()
		logger.Warnf("Dispatcher is already running")
		return nil
	}

	d.running = true
	d.stopChan = make(chan struct{})
	d.doneChan = make(chan struct{})
	interval := d.interval
	d.mu.Unlock()

	logger.Infof("Starting outbox dispatcher with interval: %v", interval)

	go d.run(ctx, interval)

	return nil
}

func (d *Dispatcher) run(ctx context.Context, interval time.Duration) {
	defer close(d.doneChan)

	d.dispatch(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.dispatch(ctx)

		case <-d.stopChan:
			logger.Warnf("Dispatcher received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Dispatcher context cancelled")
			d.mu.Lock()
			d.running = false
			d.mu.Unlock()
			return
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context) {
	d.mu.Lock()
	d.lastRunAt = time.Now()
	d.runsCount++
	runNumber := d.runsCount
	alertWebhook := d.alertWebhook
	alertThreshold := d.alertThreshold
	d.mu.Unlock()

	results, err := d.processor.ProcessDueDeliveries(ctx)
	if err != nil {
		logger.Errorf("[Run #%d] Error processing due deliveries: %v", runNumber, err)
		d.recordMetric("error", 0, 0)
		return
	}

	if len(results) == 0 {
		logger.Debugf("[Run #%d] No due deliveries", runNumber)
		d.recordMetric("idle", 0, 0)
		return
	}

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}
	failedCount := len(results) - successCount

	outcome := "ok"
	switch {
	case successCount == 0:
		outcome = "all_failed"
	case failedCount > 0:
		outcome = "partial"
	}
	d.recordMetric(outcome, successCount, failedCount)

	d.mu.Lock()
	d.deliveriesSent += int64(successCount)
	d.deliveriesFailed += int64(failedCount)

	if successCount == 0 {
		d.consecutiveAllFailCount++
		logger.Warnf("[Run #%d] All %d deliveries failed (consecutive count: %d/%d)",
			runNumber, len(results), d.consecutiveAllFailCount, alertThreshold)

		if alertThreshold > 0 && d.consecutiveAllFailCount >= alertThreshold && alertWebhook != "" && d.alerts != nil {
			go d.sendAlert(alertWebhook, runNumber, d.consecutiveAllFailCount, len(results))
		}
	} else {
		if d.consecutiveAllFailCount > 0 {
			logger.Debugf("[Run #%d] Resetting consecutive failure count (was: %d)", runNumber, d.consecutiveAllFailCount)
		}
		d.consecutiveAllFailCount = 0
	}
	d.mu.Unlock()

	logger.Infof("[Run #%d] Processed %d deliveries, %d successful, %d failed",
		runNumber, len(results), successCount, failedCount)
}

func (d *Dispatcher) recordMetric(outcome string, sent, failed int) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(outcome, sent, failed)
	}
}

func (d *Dispatcher) Stop() error {
	d.mu.Lock()

	if !d.running {
		d.mu.Unlock()
		logger.Warnf("Dispatcher is not running")
		return nil
	}

	d.running = false
	stopChan := d.stopChan
	doneChan := d.doneChan
	d.mu.Unlock()

	close(stopChan)
	<-doneChan

	logger.Infof("Dispatcher stopped")
	return nil
}

func (d *Dispatcher) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

func (d *Dispatcher) GetStatus() DispatcherStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := DispatcherStatus{
		Running:                 d.running,
		LastRunAt:               d.lastRunAt,
		DeliveriesSent:          d.deliveriesSent,
		DeliveriesFailed:        d.deliveriesFailed,
		RunsCount:               d.runsCount,
		Interval:                d.interval.String(),
		ConsecutiveAllFailCount: d.consecutiveAllFailCount,
		LastAlertSentAt:         d.lastAlertSentAt,
	}

	if d.running && !d.lastRunAt.IsZero() {
		status.NextRunAt = d.lastRunAt.Add(d.interval)
	}

	return status
}

func (d *Dispatcher) sendAlert(url string, runNumber int64, consecutiveFailures, deliveriesInBatch int) {
	ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
	defer cancel()

	err := d.alerts.SendAlert(ctx, url, webhook.Alert{
		Alert:               "consecutive_all_fail",
		RunNumber:           runNumber,
		ConsecutiveFailures: consecutiveFailures,
		DeliveriesInBatch:   deliveriesInBatch,
		Timestamp:           time.Now().Format(time.RFC3339),
		Message: fmt.Sprintf(
			"All %d due deliveries failed for %d consecutive runs",
			deliveriesInBatch,
			consecutiveFailures,
		),
	})
	if err != nil {
		logger.Errorf("Failed to send alert: %v", err)
		return
	}

	d.mu.Lock()
	d.lastAlertSentAt = time.Now()
	d.mu.Unlock()
	logger.Infof("Alert sent (consecutive failures: %d)", consecutiveFailures)
}

type DispatcherStatus struct {
	Running                 bool      `json:"running"`
	LastRunAt               time.Time `json:"lastRunAt,omitempty"`
	NextRunAt               time.Time `json:"nextRunAt,omitempty"`
	DeliveriesSent          int64     `json:"deliveriesSent"`
	DeliveriesFailed        int64     `json:"deliveriesFailed"`
	RunsCount               int64     `json:"runsCount"`
	Interval                string    `json:"interval"`
	ConsecutiveAllFailCount int       `json:"consecutiveAllFailCount"`
	LastAlertSentAt         time.Time `json:"lastAlertSentAt,omitempty"`
}
