package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/scheduler"
)

type fakeDispatcher struct {
	running       bool
	interval      time.Duration
	alertWebhook  string
	alertThreshold int
	stops         int
}

func (f *fakeDispatcher) IsRunning() bool { return f.running }

func (f *fakeDispatcher) StartWithParams(ctx context.Context, interval time.Duration, alertWebhook string, alertThreshold int) error {
	f.running = true
	f.interval = interval
	f.alertWebhook = alertWebhook
	f.alertThreshold = alertThreshold
	return nil
}

func (f *fakeDispatcher) Stop() error {
	f.running = false
	f.stops++
	return nil
}

func (f *fakeDispatcher) GetStatus() scheduler.DispatcherStatus {
	return scheduler.DispatcherStatus{Running: f.running, Interval: f.interval.String()}
}

func dispatcherTestConfig() *environments.Config {
	return &environments.Config{
		Delivery: environments.DeliveryConfig{DispatchInterval: time.Minute},
		Alert:    environments.AlertConfig{WebhookURL: "http://alerts.local", IterationCount: 3},
	}
}

func TestStartDispatcher_UsesConfigDefaults(t *testing.T) {
	d := &fakeDispatcher{}
	h := NewDispatcherHandler(d, context.Background(), dispatcherTestConfig())

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/dispatcher/start", `{}`)
	require.NoError(t, h.StartDispatcher(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, d.running)
	assert.Equal(t, time.Minute, d.interval)
	assert.Equal(t, "http://alerts.local", d.alertWebhook)
	assert.Equal(t, 3, d.alertThreshold)
}

func TestStartDispatcher_OverridesInterval(t *testing.T) {
	d := &fakeDispatcher{}
	h := NewDispatcherHandler(d, context.Background(), dispatcherTestConfig())

	c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/dispatcher/start", `{"intervalSeconds":30}`)
	require.NoError(t, h.StartDispatcher(c))

	assert.Equal(t, 30*time.Second, d.interval)
}

func TestStartDispatcher_RejectsTooShortInterval(t *testing.T) {
	d := &fakeDispatcher{}
	h := NewDispatcherHandler(d, context.Background(), dispatcherTestConfig())

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/dispatcher/start", `{"intervalSeconds":1}`)
	require.NoError(t, h.StartDispatcher(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, d.running)
}

func TestStartDispatcher_AlreadyRunning(t *testing.T) {
	d := &fakeDispatcher{running: true, interval: time.Minute}
	h := NewDispatcherHandler(d, context.Background(), dispatcherTestConfig())

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/dispatcher/start", `{"intervalSeconds":30}`)
	require.NoError(t, h.StartDispatcher(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already running")
	assert.Equal(t, time.Minute, d.interval)
}

func TestStopDispatcher(t *testing.T) {
	d := &fakeDispatcher{running: true}
	h := NewDispatcherHandler(d, context.Background(), dispatcherTestConfig())

	c, rec := newRequestContext(newTestEcho(), http.MethodPost, "/api/v1/dispatcher/stop")
	require.NoError(t, h.StopDispatcher(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, d.stops)

	c, rec = newRequestContext(newTestEcho(), http.MethodPost, "/api/v1/dispatcher/stop")
	require.NoError(t, h.StopDispatcher(c))
	assert.Contains(t, rec.Body.String(), "already stopped")
	assert.Equal(t, 1, d.stops)
}

func TestGetDispatcherStatus(t *testing.T) {
	d := &fakeDispatcher{running: true, interval: 2 * time.Minute}
	h := NewDispatcherHandler(d, context.Background(), dispatcherTestConfig())

	c, rec := newRequestContext(newTestEcho(), http.MethodGet, "/api/v1/dispatcher/status")
	require.NoError(t, h.GetDispatcherStatus(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"interval":"2m0s"`)
}
