package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

const (
	dispatchConcurrency = 4
	recordTimeout       = 3 * time.Second
)

// Small internal interfaces so we can test without touching real DB/Redis/Twilio.
type deliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) (int64, error)
	ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int) ([]domain.Delivery, error)
	MarkAsSent(ctx context.Context, id int64, providerSID string, sentAt time.Time) error
	MarkAsFailed(ctx context.Context, id int64, reason string) error
	GetByID(ctx context.Context, id int64) (*domain.Delivery, error)

	GetAll(ctx context.Context, status *domain.DeliveryStatus, page, pageSize int) ([]domain.Delivery, int64, error)
	GetStats(ctx context.Context) (domain.DeliveryStats, error)

	ReplayFailedByID(ctx context.Context, id int64) error
	ReplayAllFailed(ctx context.Context) (int64, error)
}

type messageSender interface {
	SendNow(ctx context.Context, to, body string) (*domain.TransportReceipt, error)
	SendScheduled(ctx context.Context, to, body string, sendAt time.Time) (*domain.TransportReceipt, error)
	CanScheduleAt(now, sendAt time.Time) bool
}

type deliveryCache interface {
	CacheSentDelivery(ctx context.Context, deliveryID int64, providerSID string, sentAt time.Time) error
	GetAllCachedDeliveries(ctx context.Context) (map[int64]*domain.SentDeliveryCache, error)
}

type transportMetrics interface {
	RecordTransport(kind, status string)
}

// DeliveryService is the messaging transport the concierge talks to. It
// sends through the provider, records every outbound message in the
// delivery log and keeps follow-ups in the outbox when the provider cannot
// schedule them itself.
type DeliveryService struct {
	repo    deliveryRepository
	sender  messageSender
	cache   deliveryCache
	metrics transportMetrics
	config  environments.DeliveryConfig
	now     func() time.Time
}

func NewDeliveryService(
	repo deliveryRepository,
	sender messageSender,
	cache deliveryCache,
	metrics transportMetrics,
	config environments.DeliveryConfig,
) *DeliveryService {
	return &DeliveryService{
		repo:    repo,
		sender:  sender,
		cache:   cache,
		metrics: metrics,
		config:  config,
		now:     time.Now,
	}
}

// SendNow delivers msg immediately and records the outcome.
func (s *DeliveryService) SendNow(ctx context.Context, msg domain.OutboundMessage) (*domain.TransportReceipt, error) {
	body := s.truncate(msg.Body)

	receipt, err := s.sender.SendNow(ctx, msg.To, body)

	delivery := &domain.Delivery{
		EventID:   msg.EventID,
		Kind:      msg.Kind,
		Recipient: msg.To,
		Body:      body,
	}

	if err != nil {
		s.recordMetric(msg.Kind, "error")
		delivery.Status = domain.StatusFailed
		delivery.LastError = stringPtr(err.Error())
		s.record(ctx, delivery)
		return nil, err
	}

	sentAt := s.now().UTC()
	delivery.Status = domain.StatusSent
	delivery.ProviderSID = stringPtr(receipt.SID)
	delivery.SentAt = &sentAt

	s.recordMetric(msg.Kind, string(domain.StatusSent))
	if id := s.record(ctx, delivery); id > 0 {
		s.cacheSent(ctx, id, receipt.SID, sentAt)
	}

	return receipt, nil
}

// SendScheduled hands msg to the provider's scheduler when it can accept
// sendAt, otherwise stores it in the outbox for the dispatcher.
func (s *DeliveryService) SendScheduled(ctx context.Context, msg domain.OutboundMessage, sendAt time.Time) (*domain.TransportReceipt, error) {
	body := s.truncate(msg.Body)
	sendAt = sendAt.UTC()

	delivery := &domain.Delivery{
		EventID:   msg.EventID,
		Kind:      msg.Kind,
		Recipient: msg.To,
		Body:      body,
		SendAt:    &sendAt,
	}

	if s.useOutbox(sendAt) {
		delivery.Status = domain.StatusScheduled

		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()

		id, err := s.repo.Create(recordCtx, delivery)
		if err != nil {
			s.recordMetric(msg.Kind, "error")
			return nil, fmt.Errorf("failed to store %s in outbox: %w", msg.Kind, err)
		}

		s.recordMetric(msg.Kind, string(domain.StatusScheduled))
		logger.Infof("Stored %s %d in outbox for %s", msg.Kind, id, sendAt.Format(time.RFC3339))

		return &domain.TransportReceipt{
			SID:    fmt.Sprintf("outbox-%d", id),
			Status: string(domain.StatusScheduled),
		}, nil
	}

	receipt, err := s.sender.SendScheduled(ctx, msg.To, body, sendAt)
	if err != nil {
		s.recordMetric(msg.Kind, "error")
		delivery.Status = domain.StatusFailed
		delivery.LastError = stringPtr(err.Error())
		s.record(ctx, delivery)
		return nil, err
	}

	delivery.Status = domain.StatusSubmitted
	delivery.ProviderSID = stringPtr(receipt.SID)
	s.recordMetric(msg.Kind, string(domain.StatusSubmitted))
	s.record(ctx, delivery)

	return receipt, nil
}

func (s *DeliveryService) useOutbox(sendAt time.Time) bool {
	if s.config.SchedulingMode == environments.SchedulingOutbox {
		return true
	}
	return !s.sender.CanScheduleAt(s.now(), sendAt)
}

// ProcessDueDeliveries sends outbox rows whose send time has passed.
func (s *DeliveryService) ProcessDueDeliveries(ctx context.Context) ([]domain.SendResult, error) {
	batchSize := s.config.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	lease := s.config.ClaimLease
	if lease <= 0 {
		lease = 5 * time.Minute
	}

	now := s.now().UTC()
	deliveries, err := s.repo.ClaimDue(ctx, now, now.Add(lease), batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get due deliveries: %w", err)
	}

	if len(deliveries) == 0 {
		logger.Debugf("No due deliveries to process")
		return nil, nil
	}

	logger.Infof("Processing %d due deliveries", len(deliveries))

	results := make([]domain.SendResult, len(deliveries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)

	for i := range deliveries {
		i := i
		g.Go(func() error {
			results[i] = s.deliverDue(gctx, &deliveries[i])
			return nil
		})
	}

	_ = g.Wait()

	return results, nil
}

func (s *DeliveryService) deliverDue(ctx context.Context, d *domain.Delivery) domain.SendResult {
	result := domain.SendResult{
		DeliveryID: d.ID,
		SentAt:     s.now().UTC(),
	}

	receipt, err := s.sender.SendNow(ctx, d.Recipient, s.truncate(d.Body))
	if err != nil {
		logger.Errorf("Failed to send delivery %d: %v", d.ID, err)
		s.recordMetric(d.Kind, "error")
		result.Error = err

		if markErr := s.repo.MarkAsFailed(ctx, d.ID, err.Error()); markErr != nil {
			logger.Errorf("Failed to mark delivery %d as failed: %v", d.ID, markErr)
		}

		return result
	}

	s.recordMetric(d.Kind, string(domain.StatusSent))

	if err := s.repo.MarkAsSent(ctx, d.ID, receipt.SID, result.SentAt); err != nil {
		logger.Errorf("Failed to mark delivery %d as sent: %v", d.ID, err)
		result.Error = err
		return result
	}

	s.cacheSent(ctx, d.ID, receipt.SID, result.SentAt)

	logger.Infof("Successfully sent delivery %d (providerSid: %s)", d.ID, receipt.SID)

	result.Success = true
	result.ProviderSID = receipt.SID

	return result
}

func (s *DeliveryService) GetDeliveries(
	ctx context.Context,
	status *domain.DeliveryStatus,
	page,
	pageSize int,
) ([]domain.Delivery, int64, error) {
	return s.repo.GetAll(ctx, status, page, pageSize)
}

func (s *DeliveryService) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	delivery, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: id %d", domain.ErrDeliveryNotFound, id)
	}
	return delivery, nil
}

func (s *DeliveryService) GetStats(ctx context.Context) (domain.DeliveryStats, error) {
	return s.repo.GetStats(ctx)
}

func (s *DeliveryService) GetCachedDeliveries(ctx context.Context) (map[int64]*domain.SentDeliveryCache, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("redis client not configured")
	}
	return s.cache.GetAllCachedDeliveries(ctx)
}

func (s *DeliveryService) ReplayFailedDelivery(ctx context.Context, id int64) error {
	return s.repo.ReplayFailedByID(ctx, id)
}

func (s *DeliveryService) ReplayAllFailedDeliveries(ctx context.Context) (int64, error) {
	return s.repo.ReplayAllFailed(ctx)
}

// record writes the delivery log row. Failures are logged and never change
// the outcome of the send.
func (s *DeliveryService) record(ctx context.Context, d *domain.Delivery) int64 {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	id, err := s.repo.Create(ctx, d)
	if err != nil {
		logger.Warnf("Failed to record %s delivery for event %s: %v", d.Kind, d.EventID, err)
		return 0
	}
	return id
}

func (s *DeliveryService) cacheSent(ctx context.Context, id int64, providerSID string, sentAt time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheSentDelivery(ctx, id, providerSID, sentAt); err != nil {
		logger.Warnf("Failed to cache delivery %d to Redis: %v", id, err)
	}
}

func (s *DeliveryService) recordMetric(kind domain.DeliveryKind, status string) {
	if s.metrics != nil {
		s.metrics.RecordTransport(string(kind), status)
	}
}

// truncate enforces the maximum body length on rune boundaries.
func (s *DeliveryService) truncate(body string) string {
	limit := s.config.MaxBodyLength
	runes := []rune(body)
	if limit <= 0 || len(runes) <= limit {
		return body
	}

	logger.Warnf("Message body exceeds max length (%d > %d)", len(runes), limit)

	const ellipsis = "..."
	if limit > len(ellipsis) {
		return string(runes[:limit-len(ellipsis)]) + ellipsis
	}
	return string(runes[:limit])
}

func stringPtr(s string) *string {
	return &s
}
