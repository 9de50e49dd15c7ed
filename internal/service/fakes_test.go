package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

//
// Test fakes shared by the service tests.
//

type sentCall struct {
	to   string
	body string
}

type scheduledCall struct {
	to     string
	body   string
	sendAt time.Time
}

type fakeSender struct {
	mu sync.Mutex

	canSchedule bool
	sendErr     error
	scheduleErr error
	failFor     map[string]bool

	sent      []sentCall
	scheduled []scheduledCall
	seq       int
}

func (f *fakeSender) SendNow(ctx context.Context, to, body string) (*domain.TransportReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.failFor[to] {
		return nil, &domain.TransportError{Op: "send", StatusCode: 400, Code: 21211, Message: "invalid number"}
	}

	f.sent = append(f.sent, sentCall{to: to, body: body})
	f.seq++
	return &domain.TransportReceipt{SID: fmt.Sprintf("SM%d", f.seq), Status: "queued"}, nil
}

func (f *fakeSender) SendScheduled(ctx context.Context, to, body string, sendAt time.Time) (*domain.TransportReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}

	f.scheduled = append(f.scheduled, scheduledCall{to: to, body: body, sendAt: sendAt})
	f.seq++
	return &domain.TransportReceipt{SID: fmt.Sprintf("SM%d", f.seq), Status: "scheduled"}, nil
}

func (f *fakeSender) CanScheduleAt(now, sendAt time.Time) bool {
	return f.canSchedule
}

func (f *fakeSender) sentCalls() []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCall(nil), f.sent...)
}

type fakeDeliveryRepo struct {
	mu sync.Mutex

	createErr error
	created   []domain.Delivery
	due       []domain.Delivery

	markSent   map[int64]string
	markFailed map[int64]string

	replayByIDCalls []int64
	replayAllResult int64
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{
		markSent:   map[int64]string{},
		markFailed: map[int64]string{},
	}
}

func (r *fakeDeliveryRepo) Create(ctx context.Context, d *domain.Delivery) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return 0, r.createErr
	}

	row := *d
	row.ID = int64(len(r.created) + 1)
	r.created = append(r.created, row)
	return row.ID, nil
}

func (r *fakeDeliveryRepo) ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int) ([]domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Delivery
	for i := range r.due {
		d := &r.due[i]
		if d.SendAt != nil && !d.SendAt.After(now) && len(out) < limit {
			out = append(out, *d)
			lease := leaseUntil
			d.SendAt = &lease
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) GetByID(ctx context.Context, id int64) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rows := range [][]domain.Delivery{r.created, r.due} {
		for _, d := range rows {
			if d.ID == id {
				row := d
				return &row, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeDeliveryRepo) MarkAsSent(ctx context.Context, id int64, providerSID string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markSent[id] = providerSID
	return nil
}

func (r *fakeDeliveryRepo) MarkAsFailed(ctx context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markFailed[id] = reason
	return nil
}

func (r *fakeDeliveryRepo) GetAll(ctx context.Context, status *domain.DeliveryStatus, page, pageSize int) ([]domain.Delivery, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Delivery
	for _, d := range r.created {
		if status == nil || d.Status == *status {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) GetStats(ctx context.Context) (domain.DeliveryStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats domain.DeliveryStats
	for _, d := range r.created {
		switch d.Status {
		case domain.StatusScheduled:
			stats.Scheduled++
		case domain.StatusSubmitted:
			stats.Submitted++
		case domain.StatusSent:
			stats.Sent++
		case domain.StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (r *fakeDeliveryRepo) ReplayFailedByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replayByIDCalls = append(r.replayByIDCalls, id)
	return nil
}

func (r *fakeDeliveryRepo) ReplayAllFailed(ctx context.Context) (int64, error) {
	return r.replayAllResult, nil
}

func (r *fakeDeliveryRepo) rows() []domain.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Delivery(nil), r.created...)
}

type fakeDeliveryCache struct {
	mu     sync.Mutex
	cached map[int64]*domain.SentDeliveryCache
}

func newFakeDeliveryCache() *fakeDeliveryCache {
	return &fakeDeliveryCache{cached: map[int64]*domain.SentDeliveryCache{}}
}

func (c *fakeDeliveryCache) CacheSentDelivery(ctx context.Context, id int64, providerSID string, sentAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached[id] = &domain.SentDeliveryCache{ProviderSID: providerSID, SentAt: sentAt}
	return nil
}

func (c *fakeDeliveryCache) GetAllCachedDeliveries(ctx context.Context) (map[int64]*domain.SentDeliveryCache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]*domain.SentDeliveryCache, len(c.cached))
	for k, v := range c.cached {
		out[k] = v
	}
	return out, nil
}

type fakeRestaurants struct {
	records map[string]*domain.Restaurant
	err     error
	panics  bool
	calls   []string
}

func (f *fakeRestaurants) FindByTriggerName(ctx context.Context, triggerName string) (*domain.Restaurant, error) {
	f.calls = append(f.calls, triggerName)
	if f.panics {
		panic("store exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records[triggerName], nil
}

type fakeRestaurantCache struct {
	records  map[string]*domain.Restaurant
	getErr   error
	setCalls int
}

func (c *fakeRestaurantCache) GetRestaurant(ctx context.Context, triggerName string) (*domain.Restaurant, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.records[triggerName], nil
}

func (c *fakeRestaurantCache) CacheRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	c.setCalls++
	if c.records == nil {
		c.records = map[string]*domain.Restaurant{}
	}
	c.records[restaurant.TriggerName] = restaurant
	return nil
}

type fakeReporter struct {
	mu     sync.Mutex
	errors []error
}

func (r *fakeReporter) CaptureException(ctx context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

type fakeMetrics struct {
	mu        sync.Mutex
	webhooks  []string
	transport []string
	hits      int
	misses    int
}

func (m *fakeMetrics) RecordWebhook(state string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.webhooks = append(m.webhooks, state)
}

func (m *fakeMetrics) RecordTransport(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transport = append(m.transport, kind+":"+status)
}

func (m *fakeMetrics) RecordCacheHit(module string)  { m.hits++ }
func (m *fakeMetrics) RecordCacheMiss(module string) { m.misses++ }

func ptr[T any](v T) *T {
	return &v
}
