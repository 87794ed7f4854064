package usecases

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	webhookvo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
)

// memSubscriberRepository keeps subscribers in a map. UpdateErr, when set,
// is returned by Update without storing anything.
type memSubscriberRepository struct {
	mu        sync.Mutex
	byID      map[uint]*subscriber.Subscriber
	updates   int
	UpdateErr error
}

func newMemSubscriberRepository(subs ...*subscriber.Subscriber) *memSubscriberRepository {
	r := &memSubscriberRepository{byID: map[uint]*subscriber.Subscriber{}}
	for _, s := range subs {
		r.byID[s.ID()] = s
	}
	return r
}

func (r *memSubscriberRepository) Create(_ context.Context, s *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = s.SetID(uint(len(r.byID) + 1))
	r.byID[s.ID()] = s
	return nil
}

func (r *memSubscriberRepository) Update(_ context.Context, s *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.updates++
	r.byID[s.ID()] = s
	return nil
}

func (r *memSubscriberRepository) find(match func(*subscriber.Subscriber) bool) *subscriber.Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if match(s) {
			return s
		}
	}
	return nil
}

func (r *memSubscriberRepository) GetByID(_ context.Context, id uint) (*subscriber.Subscriber, error) {
	return r.find(func(s *subscriber.Subscriber) bool { return s.ID() == id }), nil
}

func (r *memSubscriberRepository) GetBySID(_ context.Context, sid string) (*subscriber.Subscriber, error) {
	return r.find(func(s *subscriber.Subscriber) bool { return s.SID() == sid }), nil
}

func (r *memSubscriberRepository) GetByDocument(_ context.Context, document string) (*subscriber.Subscriber, error) {
	return r.find(func(s *subscriber.Subscriber) bool { return s.Document() == document }), nil
}

func (r *memSubscriberRepository) GetByGatewayCustomerID(_ context.Context, customerID string) (*subscriber.Subscriber, error) {
	return r.find(func(s *subscriber.Subscriber) bool { return s.GatewayCustomerID() == customerID }), nil
}

func (r *memSubscriberRepository) GetByGatewaySubscriptionID(_ context.Context, subscriptionID string) (*subscriber.Subscriber, error) {
	return r.find(func(s *subscriber.Subscriber) bool { return s.GatewaySubscriptionID() == subscriptionID }), nil
}

func (r *memSubscriberRepository) List(_ context.Context, _ subscriber.ListFilter) ([]*subscriber.Subscriber, int64, error) {
	return nil, 0, nil
}

func (r *memSubscriberRepository) CountByCompany(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

func (r *memSubscriberRepository) FindExpirable(_ context.Context, _ time.Time, _ int) ([]*subscriber.Subscriber, error) {
	return nil, nil
}

func (r *memSubscriberRepository) FindInactivatable(_ context.Context, _ time.Time, _ int) ([]*subscriber.Subscriber, error) {
	return nil, nil
}

type memPaymentRepository struct {
	mu       sync.Mutex
	payments map[string]*payment.Payment
}

func newMemPaymentRepository() *memPaymentRepository {
	return &memPaymentRepository{payments: map[string]*payment.Payment{}}
}

func (r *memPaymentRepository) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.SetID(uint(len(r.payments) + 1))
	r.payments[p.GatewayPaymentID()] = p
	return nil
}

func (r *memPaymentRepository) Update(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.GatewayPaymentID()] = p
	return nil
}

func (r *memPaymentRepository) GetByGatewayID(_ context.Context, _ shared.Provider, gatewayPaymentID string) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[gatewayPaymentID], nil
}

func (r *memPaymentRepository) ListBySubscriber(_ context.Context, _ uint, _ int) ([]*payment.Payment, error) {
	return nil, nil
}

type memWebhookRepository struct {
	mu     sync.Mutex
	events []*webhook.Event
}

func (r *memWebhookRepository) Create(_ context.Context, e *webhook.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.events {
		if ex.Provider() == e.Provider() && ex.EventID() == e.EventID() {
			return webhook.ErrDuplicateEvent
		}
	}
	e.SetID(uint(len(r.events) + 1))
	r.events = append(r.events, e)
	return nil
}

func (r *memWebhookRepository) Update(_ context.Context, _ *webhook.Event) error {
	return nil
}

func (r *memWebhookRepository) GetBySID(_ context.Context, sid string) (*webhook.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.SID() == sid {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memWebhookRepository) GetByEventID(_ context.Context, provider shared.Provider, eventID string) (*webhook.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Provider() == provider && e.EventID() == eventID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memWebhookRepository) List(_ context.Context, _ webhook.ListFilter) ([]*webhook.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events, int64(len(r.events)), nil
}

func (r *memWebhookRepository) ListRetryable(_ context.Context, now time.Time, maxAttempts, _ int) ([]*webhook.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*webhook.Event
	for _, e := range r.events {
		if e.Status() == webhookvo.EventStatusFailed && e.NextAttemptAt() != nil &&
			!e.NextAttemptAt().After(now) && e.Attempts() < maxAttempts {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memWebhookRepository) ListExhaustedUnalerted(_ context.Context, maxAttempts, _ int) ([]*webhook.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*webhook.Event
	for _, e := range r.events {
		if e.RetriesExhausted(maxAttempts) && e.AlertedAt() == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeGateway struct {
	provider     shared.Provider
	verifyErr    error
	parseErr     error
	notification gateway.Notification
}

func (g *fakeGateway) Provider() shared.Provider { return g.provider }

func (g *fakeGateway) Verify(_ http.Header, _ []byte) error { return g.verifyErr }

func (g *fakeGateway) Parse(_ []byte) (*gateway.Notification, error) {
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	n := g.notification
	return &n, nil
}

type recordedTransition struct {
	subscriberSID string
	transition    subscriber.Transition
}

type cadenceTriggerSpy struct {
	calls []recordedTransition
}

func (s *cadenceTriggerSpy) OnTransition(_ context.Context, sub *subscriber.Subscriber, t subscriber.Transition, _ time.Time) error {
	s.calls = append(s.calls, recordedTransition{subscriberSID: sub.SID(), transition: t})
	return nil
}

type alertNotifierSpy struct {
	alerted []string
	err     error
}

func (s *alertNotifierSpy) NotifyWebhookExhausted(_ context.Context, ev *webhook.Event) error {
	if s.err != nil {
		return s.err
	}
	s.alerted = append(s.alerted, ev.SID())
	return nil
}

type metricsSpy struct {
	statuses []string
	retries  int
}

func (m *metricsSpy) RecordWebhook(_, status string, _ time.Duration) {
	m.statuses = append(m.statuses, status)
}

func (m *metricsSpy) RecordWebhookRetry(_ string) {
	m.retries++
}

func inactiveSubscriber(id uint, sid string) *subscriber.Subscriber {
	s, err := subscriber.ReconstructSubscriberWithParams(subscriber.ReconstructParams{
		ID:           id,
		SID:          sid,
		Kind:         vo.KindIndividual,
		Name:         "Maria Souza",
		Document:     "52998224725",
		Phone:        "5511987654321",
		PlanName:     "Família",
		Amount:       shared.NewMoney(7990, ""),
		BillingCycle: vo.BillingCycleMonthly,
		Status:       vo.StatusInativo,
		Version:      1,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		panic(err)
	}
	return s
}
