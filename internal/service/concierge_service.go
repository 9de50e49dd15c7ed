package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/onurcolak/restaurant-concierge/internal/delivery"
	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/internal/language"
	"github.com/onurcolak/restaurant-concierge/internal/templates"
	"github.com/onurcolak/restaurant-concierge/internal/trigger"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

const (
	defaultLookupTimeout = 3 * time.Second
	defaultSendTimeout   = 5 * time.Second
)

type restaurantFinder interface {
	FindByTriggerName(ctx context.Context, triggerName string) (*domain.Restaurant, error)
}

type immediateSender interface {
	SendNow(ctx context.Context, msg domain.OutboundMessage) (*domain.TransportReceipt, error)
}

type followUpScheduler interface {
	ComputeSendTime(now time.Time, delayHours float64) time.Time
	SubmitDelayed(ctx context.Context, msg domain.OutboundMessage, sendAt time.Time) (delivery.Handle, error)
}

type errorReporter interface {
	CaptureException(ctx context.Context, err error)
}

type webhookMetrics interface {
	RecordWebhook(state string, duration float64)
}

type ConciergeConfig struct {
	LookupTimeout time.Duration
	SendTimeout   time.Duration
}

// Result describes what happened to one inbound event.
type Result struct {
	EventID     string
	State       domain.EventState
	Path        []domain.EventState
	Language    domain.Language
	TriggerName string
	Restaurant  *domain.Restaurant
	ReplySID    string
	FollowUpSID string
	FollowUpAt  time.Time
	// FollowUpErr is set when the reply went out but the follow-up could
	// not be scheduled. The event still ends in StateDone.
	FollowUpErr error
	Err         error
}

func (r *Result) advance(state domain.EventState) {
	r.State = state
	r.Path = append(r.Path, state)
}

func (r *Result) fail(err error) {
	r.advance(domain.StateFailed)
	r.Err = err
}

// ConciergeService runs the per-event pipeline: language, greeting, lookup,
// welcome reply and review follow-up.
type ConciergeService struct {
	resolver    *language.Resolver
	matcher     *trigger.Matcher
	restaurants restaurantFinder
	sender      immediateSender
	scheduler   followUpScheduler
	reporter    errorReporter
	metrics     webhookMetrics
	config      ConciergeConfig
	now         func() time.Time
}

func NewConciergeService(
	resolver *language.Resolver,
	matcher *trigger.Matcher,
	restaurants restaurantFinder,
	sender immediateSender,
	scheduler followUpScheduler,
	reporter errorReporter,
	metrics webhookMetrics,
	config ConciergeConfig,
) *ConciergeService {
	if config.LookupTimeout <= 0 {
		config.LookupTimeout = defaultLookupTimeout
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = defaultSendTimeout
	}

	return &ConciergeService{
		resolver:    resolver,
		matcher:     matcher,
		restaurants: restaurants,
		sender:      sender,
		scheduler:   scheduler,
		reporter:    reporter,
		metrics:     metrics,
		config:      config,
		now:         time.Now,
	}
}

// HandleInbound processes one chat message. It never returns an error: every
// failure is contained in the Result, logged and reported.
func (s *ConciergeService) HandleInbound(ctx context.Context, event domain.InboundEvent) (result Result) {
	start := s.now()
	result = Result{EventID: event.ID}
	log := logger.With("event_id", event.ID)

	defer func() {
		if rec := recover(); rec != nil {
			result.fail(fmt.Errorf("panic while handling event %s: %v", event.ID, rec))
			s.report(ctx, result.Err)
		}

		if s.metrics != nil {
			s.metrics.RecordWebhook(string(result.State), s.now().Sub(start).Seconds())
		}

		log.Info("inbound event processed",
			"state", result.State,
			"language", result.Language,
			"trigger", result.TriggerName,
			"follow_up_at", result.FollowUpAt,
		)
	}()

	result.advance(domain.StateReceived)
	lang := s.resolver.Resolve(event.FromAddress)
	result.Language = lang

	match, err := s.matcher.Match(event.RawBody)
	if err != nil {
		result.advance(domain.StateRejectedNoGreeting)
		result.Err = err
		s.sendNotice(ctx, event, domain.KindInstruction, templates.Instructions(lang, s.matcher.GreetingFor(lang)))
		return result
	}
	result.advance(domain.StateValidated)

	if match.Language != lang {
		log.Debug("greeting language differs from phone prefix", "greeting", match.Greeting, "greeting_language", match.Language)
	}

	result.TriggerName = trigger.Normalize(match.TriggerName)

	restaurant, err := s.lookup(ctx, result.TriggerName)
	if err != nil {
		result.fail(fmt.Errorf("failed to look up %q: %w", result.TriggerName, err))
		s.report(ctx, result.Err)
		return result
	}
	if restaurant == nil {
		result.advance(domain.StateRejectedNotFound)
		result.Err = domain.ErrRestaurantNotFound
		s.sendNotice(ctx, event, domain.KindNotFound, templates.NotFound(lang))
		return result
	}
	result.Restaurant = restaurant
	result.advance(domain.StateResolved)

	welcome, err := s.renderWelcome(restaurant, lang, event.SenderDisplayName)
	if err != nil {
		result.fail(err)
		s.report(ctx, err)
		return result
	}

	receipt, err := s.send(ctx, domain.OutboundMessage{
		EventID: event.ID,
		Kind:    domain.KindReply,
		To:      event.FromAddress,
		Body:    welcome,
	})
	if err != nil {
		result.fail(fmt.Errorf("failed to send welcome reply: %w", err))
		s.report(ctx, result.Err)
		return result
	}
	result.ReplySID = receipt.SID
	result.advance(domain.StateReplied)

	s.scheduleFollowUp(ctx, event, restaurant, lang, &result)

	result.advance(domain.StateDone)
	return result
}

func (s *ConciergeService) scheduleFollowUp(
	ctx context.Context,
	event domain.InboundEvent,
	restaurant *domain.Restaurant,
	lang domain.Language,
	result *Result,
) {
	sendAt := s.scheduler.ComputeSendTime(s.now(), restaurant.DelayHours())
	result.FollowUpAt = sendAt

	review, err := s.renderReview(restaurant, lang, event.SenderDisplayName)
	if err != nil {
		result.FollowUpErr = err
		s.report(ctx, err)
		return
	}

	handle, err := s.scheduler.SubmitDelayed(ctx, domain.OutboundMessage{
		EventID: event.ID,
		Kind:    domain.KindFollowUp,
		To:      event.FromAddress,
		Body:    review,
	}, sendAt)
	if err != nil {
		result.FollowUpErr = err
		logger.Warnf("Follow-up for event %s not scheduled: %v", event.ID, err)
		s.report(ctx, err)
		return
	}

	result.FollowUpSID = handle.SID
	result.advance(domain.StateScheduled)
}

// sendNotice sends an instruction or not-found message. Transport failures
// are logged and reported but never surface to the user.
func (s *ConciergeService) sendNotice(ctx context.Context, event domain.InboundEvent, kind domain.DeliveryKind, body string) {
	_, err := s.send(ctx, domain.OutboundMessage{
		EventID: event.ID,
		Kind:    kind,
		To:      event.FromAddress,
		Body:    body,
	})
	if err != nil {
		logger.Warnf("Failed to send %s message for event %s: %v", kind, event.ID, err)
		s.report(ctx, err)
	}
}

func (s *ConciergeService) send(ctx context.Context, msg domain.OutboundMessage) (*domain.TransportReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
	defer cancel()
	return s.sender.SendNow(ctx, msg)
}

func (s *ConciergeService) lookup(ctx context.Context, triggerName string) (*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.LookupTimeout)
	defer cancel()
	return s.restaurants.FindByTriggerName(ctx, triggerName)
}

func (s *ConciergeService) report(ctx context.Context, err error) {
	if s.reporter != nil && err != nil {
		s.reporter.CaptureException(ctx, err)
	}
}

func (s *ConciergeService) renderWelcome(r *domain.Restaurant, lang domain.Language, displayName string) (string, error) {
	return renderMessage(r.WelcomeTemplates, lang, welcomeFields(r, lang, displayName), "welcome", r.TriggerName)
}

func (s *ConciergeService) renderReview(r *domain.Restaurant, lang domain.Language, displayName string) (string, error) {
	return renderMessage(r.ReviewTemplates, lang, reviewFields(r, lang, displayName), "review", r.TriggerName)
}

func renderMessage(set domain.Templates, lang domain.Language, fields map[string]string, category, triggerName string) (string, error) {
	tmpl, used, err := templates.Select(set, lang)
	if err != nil {
		return "", fmt.Errorf("%s message for %q: %w", category, triggerName, err)
	}

	if used != lang {
		logger.Debugf("No %s template in %s for %q, using %s", category, lang, triggerName, used)
	}
	if missing := templates.Unresolved(tmpl, fields); len(missing) > 0 {
		logger.Warnf("%s template for %q has unresolved placeholders: %s", category, triggerName, strings.Join(missing, ", "))
	}

	return templates.Render(tmpl, fields), nil
}

func firstName(lang domain.Language, displayName string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	return templates.CustomerName(lang)
}

func welcomeFields(r *domain.Restaurant, lang domain.Language, displayName string) map[string]string {
	wifi := domain.StringValue(r.WifiPassword)
	if wifi == "" {
		wifi = templates.WifiUnavailable(lang)
	}

	return map[string]string{
		templates.FieldFirstName:      firstName(lang, displayName),
		templates.FieldRestaurantName: r.Name,
		templates.FieldMenuURL:        domain.StringValue(r.MenuURL),
		templates.FieldWifiInfo:       wifi,
	}
}

func reviewFields(r *domain.Restaurant, lang domain.Language, displayName string) map[string]string {
	return map[string]string{
		templates.FieldFirstName:      firstName(lang, displayName),
		templates.FieldRestaurantName: r.Name,
		templates.FieldReviewLink:     domain.StringValue(r.ReviewLink),
	}
}

// Lookup resolves a raw trigger name the same way an inbound message does.
func (s *ConciergeService) Lookup(ctx context.Context, rawTrigger string) (*domain.Restaurant, error) {
	name := trigger.Normalize(rawTrigger)
	if name == "" {
		return nil, domain.ErrRestaurantNotFound
	}

	restaurant, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrRestaurantNotFound
	}
	return restaurant, nil
}

type PreviewRequest struct {
	TriggerName string
	Language    domain.Language
	FirstName   string
}

type Preview struct {
	Restaurant      string          `json:"restaurant"`
	TriggerName     string          `json:"triggerName"`
	Language        domain.Language `json:"language"`
	WelcomeLanguage domain.Language `json:"welcomeLanguage"`
	Welcome         string          `json:"welcome"`
	ReviewLanguage  domain.Language `json:"reviewLanguage"`
	Review          string          `json:"review"`
	FollowUpAt      time.Time       `json:"followUpAt"`
	Warnings        []string        `json:"warnings"`
}

// Preview renders both messages for a restaurant without sending anything.
func (s *ConciergeService) Preview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	restaurant, err := s.Lookup(ctx, req.TriggerName)
	if err != nil {
		return nil, err
	}

	lang := req.Language
	if !lang.Valid() {
		lang = domain.DefaultLanguage
	}

	welcomeTmpl, welcomeLang, err := templates.Select(restaurant.WelcomeTemplates, lang)
	if err != nil {
		return nil, fmt.Errorf("welcome message for %q: %w", restaurant.TriggerName, err)
	}
	reviewTmpl, reviewLang, err := templates.Select(restaurant.ReviewTemplates, lang)
	if err != nil {
		return nil, fmt.Errorf("review message for %q: %w", restaurant.TriggerName, err)
	}

	warnings := []string{}
	for _, w := range templates.Lint(templates.CategoryWelcome, welcomeTmpl) {
		warnings = append(warnings, "welcome: "+w)
	}
	for _, w := range templates.Lint(templates.CategoryReview, reviewTmpl) {
		warnings = append(warnings, "review: "+w)
	}

	return &Preview{
		Restaurant:      restaurant.Name,
		TriggerName:     restaurant.TriggerName,
		Language:        lang,
		WelcomeLanguage: welcomeLang,
		Welcome:         templates.Render(welcomeTmpl, welcomeFields(restaurant, lang, req.FirstName)),
		ReviewLanguage:  reviewLang,
		Review:          templates.Render(reviewTmpl, reviewFields(restaurant, lang, req.FirstName)),
		FollowUpAt:      s.scheduler.ComputeSendTime(s.now(), restaurant.DelayHours()),
		Warnings:        warnings,
	}, nil
}

// IsRejection reports whether err is one of the expected user-facing
// rejections rather than an infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrNoGreeting) || errors.Is(err, domain.ErrRestaurantNotFound)
}
