package usecases

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	cadencevo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
)

type memMessageRepository struct {
	mu        sync.Mutex
	msgs      []*cadence.Message
	UpdateErr error
}

func (r *memMessageRepository) CreateBatch(_ context.Context, msgs []*cadence.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		m.SetID(uint(len(r.msgs) + 1))
		r.msgs = append(r.msgs, m)
	}
	return nil
}

func (r *memMessageRepository) Update(_ context.Context, _ *cadence.Message) error {
	return r.UpdateErr
}

func (r *memMessageRepository) GetByID(_ context.Context, id uint) (*cadence.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID() == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMessageRepository) HasPendingRun(_ context.Context, subscriberID uint, name cadencevo.CadenceName) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.SubscriberID() == subscriberID && m.Cadence() == name && m.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMessageRepository) ListDue(_ context.Context, now time.Time, limit int) ([]*cadence.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*cadence.Message
	for _, m := range r.msgs {
		if !m.IsPending() || m.SendAt().After(now) || r.blocked(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendAt().Before(out[j].SendAt()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepository) blocked(m *cadence.Message) bool {
	for _, o := range r.msgs {
		if o.RunID() == m.RunID() && o.StepIndex() < m.StepIndex() && o.IsPending() {
			return true
		}
	}
	return false
}

func (r *memMessageRepository) NextInRun(_ context.Context, runID string, stepIndex int) (*cadence.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var next *cadence.Message
	for _, m := range r.msgs {
		if m.RunID() == runID && m.StepIndex() > stepIndex && m.IsPending() {
			if next == nil || m.StepIndex() < next.StepIndex() {
				next = m
			}
		}
	}
	return next, nil
}

func (r *memMessageRepository) CancelPending(_ context.Context, subscriberID uint, names []cadencevo.CadenceName, reason string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SubscriberID() != subscriberID {
			continue
		}
		if len(names) > 0 && !containsName(names, m.Cadence()) {
			continue
		}
		if m.Cancel(reason) {
			n++
		}
	}
	return n, nil
}

func containsName(names []cadencevo.CadenceName, n cadencevo.CadenceName) bool {
	for _, x := range names {
		if x == n {
			return true
		}
	}
	return false
}

func (r *memMessageRepository) ListBySubscriber(_ context.Context, subscriberID uint, _, _ int) ([]*cadence.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*cadence.Message
	for _, m := range r.msgs {
		if m.SubscriberID() == subscriberID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memMessageRepository) byCadence(name cadencevo.CadenceName) []*cadence.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*cadence.Message
	for _, m := range r.msgs {
		if m.Cadence() == name {
			out = append(out, m)
		}
	}
	return out
}

type staticCatalog map[cadencevo.CadenceName]cadence.Cadence

func (c staticCatalog) Get(name cadencevo.CadenceName) (cadence.Cadence, error) {
	cd, ok := c[name]
	if !ok {
		return cadence.Cadence{}, cadence.ErrCadenceNotFound
	}
	return cd, nil
}

func (c staticCatalog) Names() []cadencevo.CadenceName {
	out := make([]cadencevo.CadenceName, 0, len(c))
	for n := range c {
		out = append(out, n)
	}
	return out
}

func testCatalog() staticCatalog {
	return staticCatalog{
		cadencevo.CadenceWelcome: {Name: cadencevo.CadenceWelcome, Steps: []cadence.Step{
			{Delay: 0, Template: "Oi {{.FirstName}}, bem-vindo"},
			{Delay: 24 * time.Hour, Template: "Dia 2"},
			{Delay: 72 * time.Hour, Template: "Dia 5"},
		}},
		cadencevo.CadenceOverdue: {Name: cadencevo.CadenceOverdue, Steps: []cadence.Step{
			{Delay: time.Hour, Template: "Pagamento pendente"},
			{Delay: 48 * time.Hour, Template: "Ainda pendente"},
		}},
		cadencevo.CadenceReactivated: {Name: cadencevo.CadenceReactivated, Steps: []cadence.Step{
			{Delay: 0, Template: "Bem-vindo de volta"},
		}},
	}
}

// replaceRenderer substitutes {{.FirstName}} and fails on "{{.Broken}}".
type replaceRenderer struct{}

func (replaceRenderer) Render(source string, data cadence.TemplateData) (string, error) {
	if strings.Contains(source, "{{.Broken}}") {
		return "", errors.New(`template: step:1: can't evaluate field Broken`)
	}
	return strings.ReplaceAll(source, "{{.FirstName}}", data.FirstName), nil
}

func plainTemplateData(name, planName string, amount shared.Money, _, _ *time.Time) cadence.TemplateData {
	first, _, _ := strings.Cut(name, " ")
	return cadence.TemplateData{Name: name, FirstName: first, PlanName: planName, Amount: amount.String()}
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	errs  []error
	calls int
}

// Send fails with the queued errors first, then succeeds.
func (s *fakeSender) Send(_ context.Context, _, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return "", err
	}
	s.sent = append(s.sent, text)
	return "wamid-" + text, nil
}

type fixedRetryPolicy time.Duration

func (p fixedRetryPolicy) NextDelay(int) time.Duration { return time.Duration(p) }

type countingMetrics struct {
	mu       sync.Mutex
	statuses map[string]int
}

func (m *countingMetrics) RecordCadenceMessage(_, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statuses == nil {
		m.statuses = map[string]int{}
	}
	m.statuses[status]++
}

func testSubscriber(phone string) *subscriber.Subscriber {
	s, err := subscriber.ReconstructSubscriberWithParams(subscriber.ReconstructParams{
		ID:           7,
		SID:          "sbr_joao",
		Kind:         vo.KindIndividual,
		Name:         "João Pereira",
		Document:     "52998224725",
		Phone:        phone,
		PlanName:     "Individual",
		Amount:       shared.NewMoney(4990, ""),
		BillingCycle: vo.BillingCycleMonthly,
		Status:       vo.StatusAtivo,
		Version:      1,
	})
	if err != nil {
		panic(err)
	}
	return s
}

type singleSubscriberRepo struct {
	subscriber.Repository
	sub *subscriber.Subscriber
}

func (r *singleSubscriberRepo) GetBySID(_ context.Context, sid string) (*subscriber.Subscriber, error) {
	if r.sub != nil && r.sub.SID() == sid {
		return r.sub, nil
	}
	return nil, nil
}
