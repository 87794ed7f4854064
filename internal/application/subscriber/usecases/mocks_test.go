package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
)

type memSubscriberRepository struct {
	mu        sync.Mutex
	subs      map[uint]*subscriber.Subscriber
	nextID    uint
	UpdateErr map[uint]error
}

func newMemSubscriberRepository(subs ...*subscriber.Subscriber) *memSubscriberRepository {
	r := &memSubscriberRepository{subs: map[uint]*subscriber.Subscriber{}, nextID: 100, UpdateErr: map[uint]error{}}
	for _, s := range subs {
		r.subs[s.ID()] = s
	}
	return r
}

func (r *memSubscriberRepository) Create(_ context.Context, s *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subs {
		if existing.Document() == s.Document() {
			return subscriber.ErrDocumentExists
		}
	}
	r.nextID++
	if err := s.SetID(r.nextID); err != nil {
		return err
	}
	r.subs[s.ID()] = s
	return nil
}

func (r *memSubscriberRepository) Update(_ context.Context, s *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.UpdateErr[s.ID()]; err != nil {
		return err
	}
	s.SetVersion(s.Version() + 1)
	r.subs[s.ID()] = s
	return nil
}

func (r *memSubscriberRepository) GetByID(_ context.Context, id uint) (*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[id], nil
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

func (r *memSubscriberRepository) find(match func(*subscriber.Subscriber) bool) *subscriber.Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if match(s) {
			return s
		}
	}
	return nil
}

func (r *memSubscriberRepository) List(_ context.Context, f subscriber.ListFilter) ([]*subscriber.Subscriber, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscriber.Subscriber
	for _, s := range r.subs {
		if f.Status != nil && s.Status() != *f.Status {
			continue
		}
		if f.Kind != nil && s.Kind() != *f.Kind {
			continue
		}
		if f.CompanyID != nil && (s.CompanyID() == nil || *s.CompanyID() != *f.CompanyID) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *memSubscriberRepository) CountByCompany(_ context.Context, companyID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.subs {
		if s.CompanyID() != nil && *s.CompanyID() == companyID {
			n++
		}
	}
	return n, nil
}

func (r *memSubscriberRepository) FindExpirable(_ context.Context, cutoff time.Time, limit int) ([]*subscriber.Subscriber, error) {
	return r.due(vo.StatusAtivo, cutoff, limit), nil
}

func (r *memSubscriberRepository) FindInactivatable(_ context.Context, cutoff time.Time, limit int) ([]*subscriber.Subscriber, error) {
	return r.due(vo.StatusVencido, cutoff, limit), nil
}

func (r *memSubscriberRepository) due(status vo.SubscriberStatus, cutoff time.Time, limit int) []*subscriber.Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscriber.Subscriber
	for id := uint(1); id <= r.nextID && len(out) < limit; id++ {
		s, ok := r.subs[id]
		if !ok || s.Status() != status {
			continue
		}
		if d := s.EffectiveDueDate(); d != nil && d.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

type memCompanyRepository struct {
	companies []*company.Company
}

func (r *memCompanyRepository) Create(_ context.Context, c *company.Company) error {
	c.SetID(uint(len(r.companies) + 1))
	r.companies = append(r.companies, c)
	return nil
}

func (r *memCompanyRepository) GetByID(_ context.Context, id uint) (*company.Company, error) {
	for _, c := range r.companies {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepository) GetBySID(_ context.Context, sid string) (*company.Company, error) {
	for _, c := range r.companies {
		if c.SID() == sid {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepository) GetByCNPJ(_ context.Context, cnpj string) (*company.Company, error) {
	for _, c := range r.companies {
		if c.CNPJ() == cnpj {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepository) List(_ context.Context, _ string, _, _ int) ([]*company.Company, int64, error) {
	return r.companies, int64(len(r.companies)), nil
}

type memPaymentRepository struct {
	payment.Repository
	bySubscriber map[uint][]*payment.Payment
}

func (r *memPaymentRepository) ListBySubscriber(_ context.Context, subscriberID uint, limit int) ([]*payment.Payment, error) {
	out := r.bySubscriber[subscriberID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordedTransition struct {
	SID string
	T   subscriber.Transition
}

type triggerSpy struct {
	mu    sync.Mutex
	calls []recordedTransition
	err   error
}

func (s *triggerSpy) OnTransition(_ context.Context, sub *subscriber.Subscriber, t subscriber.Transition, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, recordedTransition{SID: sub.SID(), T: t})
	return nil
}

type sweepMetricsSpy struct {
	expired, inactivated, calls int
}

func (m *sweepMetricsSpy) RecordSweep(expired, inactivated int, _ time.Time) {
	m.calls++
	m.expired += expired
	m.inactivated += inactivated
}

var errBoom = errors.New("boom")

func acmeCompany(seatLimit int, active bool) *company.Company {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return company.ReconstructCompany(1, "cmp_acme", "Acme Ltda", "11222333000181",
		"rh@acme.com.br", "5511999990000", seatLimit, active, now, now)
}

func storedSubscriber(id uint, sid string, status vo.SubscriberStatus, due *time.Time) *subscriber.Subscriber {
	s, err := subscriber.ReconstructSubscriberWithParams(subscriber.ReconstructParams{
		ID:           id,
		SID:          sid,
		Kind:         vo.KindIndividual,
		Name:         "Maria Souza",
		Document:     "39053344705",
		Phone:        "5511988887777",
		PlanName:     "Individual",
		Amount:       shared.NewMoney(4990, shared.CurrencyBRL),
		BillingCycle: vo.BillingCycleMonthly,
		Status:       status,
		ExpiredAt:    due,
		Version:      1,
	})
	if err != nil {
		panic(err)
	}
	return s
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 3, 0, 0, 0, time.UTC)
	return &t
}
