package subscriber

import (
	"fmt"
	"strings"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

// Subscriber is the aggregate root for a club member, individual or a seat
// on a corporate contract.
type Subscriber struct {
	id                    uint
	sid                   string
	kind                  vo.Kind
	companyID             *uint
	name                  string
	document              string
	email                 string
	phone                 string
	planName              string
	amount                shared.Money
	billingCycle          vo.BillingCycle
	status                vo.SubscriberStatus
	expiredAt             *time.Time
	nextDueDate           *time.Time
	gateway               shared.Provider
	gatewayCustomerID     string
	gatewaySubscriptionID string
	lastConfirmedAt       *time.Time
	cancelledAt           *time.Time
	cancelReason          string
	activatedAt           *time.Time
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

type CreateParams struct {
	Kind         vo.Kind
	CompanyID    *uint
	Name         string
	Document     string
	Email        string
	Phone        string
	PlanName     string
	Amount       shared.Money
	BillingCycle vo.BillingCycle
	NextDueDate  *time.Time
}

// NewSubscriber validates p and returns an inactive subscriber. It becomes
// ativo on its first confirmed payment or by operator override.
func NewSubscriber(p CreateParams) (*Subscriber, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !p.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, p.Kind)
	}
	if p.Kind == vo.KindCorporate && (p.CompanyID == nil || *p.CompanyID == 0) {
		return nil, ErrCompanyRequired
	}
	doc := shared.OnlyDigits(p.Document)
	if !shared.IsValidDocument(doc) {
		return nil, ErrInvalidDocument
	}
	cycle := p.BillingCycle
	if cycle == "" {
		cycle = vo.BillingCycleMonthly
	}
	if !cycle.IsValid() {
		return nil, vo.ErrInvalidBillingCycle
	}

	var companyID *uint
	if p.Kind == vo.KindCorporate {
		companyID = p.CompanyID
	}

	now := biztime.NowUTC()
	return &Subscriber{
		sid:          id.NewSubscriberID(),
		kind:         p.Kind,
		companyID:    companyID,
		name:         name,
		document:     doc,
		email:        strings.ToLower(strings.TrimSpace(p.Email)),
		phone:        shared.NormalizePhoneBR(p.Phone),
		planName:     strings.TrimSpace(p.PlanName),
		amount:       p.Amount,
		billingCycle: cycle,
		status:       vo.StatusInativo,
		nextDueDate:  p.NextDueDate,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type ReconstructParams struct {
	ID                    uint
	SID                   string
	Kind                  vo.Kind
	CompanyID             *uint
	Name                  string
	Document              string
	Email                 string
	Phone                 string
	PlanName              string
	Amount                shared.Money
	BillingCycle          vo.BillingCycle
	Status                vo.SubscriberStatus
	ExpiredAt             *time.Time
	NextDueDate           *time.Time
	Gateway               shared.Provider
	GatewayCustomerID     string
	GatewaySubscriptionID string
	LastConfirmedAt       *time.Time
	CancelledAt           *time.Time
	CancelReason          string
	ActivatedAt           *time.Time
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func ReconstructSubscriberWithParams(p ReconstructParams) (*Subscriber, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscriber ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, p.Status)
	}
	if !p.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, p.Kind)
	}

	return &Subscriber{
		id:                    p.ID,
		sid:                   p.SID,
		kind:                  p.Kind,
		companyID:             p.CompanyID,
		name:                  p.Name,
		document:              p.Document,
		email:                 p.Email,
		phone:                 p.Phone,
		planName:              p.PlanName,
		amount:                p.Amount,
		billingCycle:          p.BillingCycle,
		status:                p.Status,
		expiredAt:             p.ExpiredAt,
		nextDueDate:           p.NextDueDate,
		gateway:               p.Gateway,
		gatewayCustomerID:     p.GatewayCustomerID,
		gatewaySubscriptionID: p.GatewaySubscriptionID,
		lastConfirmedAt:       p.LastConfirmedAt,
		cancelledAt:           p.CancelledAt,
		cancelReason:          p.CancelReason,
		activatedAt:           p.ActivatedAt,
		version:               p.Version,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
	}, nil
}

func (s *Subscriber) ID() uint                      { return s.id }
func (s *Subscriber) SID() string                   { return s.sid }
func (s *Subscriber) Kind() vo.Kind                 { return s.kind }
func (s *Subscriber) CompanyID() *uint              { return s.companyID }
func (s *Subscriber) Name() string                  { return s.name }
func (s *Subscriber) Document() string              { return s.document }
func (s *Subscriber) Email() string                 { return s.email }
func (s *Subscriber) Phone() string                 { return s.phone }
func (s *Subscriber) PlanName() string              { return s.planName }
func (s *Subscriber) Amount() shared.Money          { return s.amount }
func (s *Subscriber) BillingCycle() vo.BillingCycle { return s.billingCycle }
func (s *Subscriber) Status() vo.SubscriberStatus   { return s.status }
func (s *Subscriber) ExpiredAt() *time.Time         { return s.expiredAt }
func (s *Subscriber) NextDueDate() *time.Time       { return s.nextDueDate }
func (s *Subscriber) Gateway() shared.Provider      { return s.gateway }
func (s *Subscriber) GatewayCustomerID() string     { return s.gatewayCustomerID }
func (s *Subscriber) GatewaySubscriptionID() string { return s.gatewaySubscriptionID }
func (s *Subscriber) LastConfirmedAt() *time.Time   { return s.lastConfirmedAt }
func (s *Subscriber) CancelledAt() *time.Time       { return s.cancelledAt }
func (s *Subscriber) CancelReason() string          { return s.cancelReason }
func (s *Subscriber) ActivatedAt() *time.Time       { return s.activatedAt }
func (s *Subscriber) Version() int                  { return s.version }
func (s *Subscriber) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscriber) UpdatedAt() time.Time          { return s.updatedAt }

// SetID is called by the repository after insert.
func (s *Subscriber) SetID(newID uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscriber ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("subscriber ID cannot be zero")
	}
	s.id = newID
	return nil
}

// SetVersion is called by the repository after a successful optimistic update.
func (s *Subscriber) SetVersion(v int) {
	s.version = v
}

// FirstName is the greeting used in outbound messages.
func (s *Subscriber) FirstName() string {
	first, _, _ := strings.Cut(s.name, " ")
	return first
}

// EffectiveDueDate is the date coverage ends: expiredAt when a payment has
// been confirmed, otherwise the scheduled next due date.
func (s *Subscriber) EffectiveDueDate() *time.Time {
	if s.expiredAt != nil {
		return s.expiredAt
	}
	return s.nextDueDate
}

// ConfirmPayment records a confirmed charge that pays until coverageEnd.
// An event older than the last cancellation is stale. A subscriber who is
// vencido is only reactivated by a payment that extends coverage.
func (s *Subscriber) ConfirmPayment(occurredAt, coverageEnd time.Time) Transition {
	from := s.status
	if s.cancelledAt != nil && s.cancelledAt.After(occurredAt) {
		return noChange(from, ReasonStaleAfterCancel)
	}
	if from == vo.StatusVencido && s.expiredAt != nil && !coverageEnd.After(*s.expiredAt) {
		return noChange(from, ReasonCoverageBehind)
	}

	changed := false
	t := Transition{From: from, To: vo.StatusAtivo}

	if from != vo.StatusAtivo {
		s.status = vo.StatusAtivo
		changed = true
	}
	if laterThan(coverageEnd, s.expiredAt) {
		s.expiredAt = timePtr(coverageEnd)
		changed = true
	}
	if laterThan(coverageEnd, s.nextDueDate) {
		s.nextDueDate = timePtr(coverageEnd)
		changed = true
	}
	if laterThan(occurredAt, s.lastConfirmedAt) {
		s.lastConfirmedAt = timePtr(occurredAt)
		changed = true
	}
	if s.activatedAt == nil {
		s.activatedAt = timePtr(occurredAt)
		t.FirstActivation = true
		changed = true
	}
	if from == vo.StatusInativo {
		s.cancelReason = ""
	}

	if !changed {
		return noChange(from, ReasonNoChange)
	}
	t.Applied = true
	t.Reason = ReasonApplied
	s.touch()
	return t
}

// MarkOverdue flags a missed charge that was due at dueDate. It is stale when
// a later payment was already confirmed or coverage already runs past dueDate.
func (s *Subscriber) MarkOverdue(occurredAt, dueDate time.Time) Transition {
	from := s.status
	if s.lastConfirmedAt != nil && occurredAt.Before(*s.lastConfirmedAt) {
		return noChange(from, ReasonStaleBeforeConfirm)
	}
	if s.expiredAt != nil && s.expiredAt.After(dueDate) {
		return noChange(from, ReasonCoverageAhead)
	}
	if from != vo.StatusAtivo {
		return noChange(from, ReasonNotActive)
	}

	s.status = vo.StatusVencido
	s.touch()
	return Transition{From: from, To: vo.StatusVencido, Applied: true, Reason: ReasonApplied}
}

// Cancel ends the membership. A cancellation older than the last confirmed
// payment is stale.
func (s *Subscriber) Cancel(occurredAt time.Time, reason string) Transition {
	from := s.status
	if s.lastConfirmedAt != nil && s.lastConfirmedAt.After(occurredAt) {
		return noChange(from, ReasonStaleBeforeConfirm)
	}
	if from == vo.StatusInativo {
		return noChange(from, ReasonAlreadyInactive)
	}

	s.status = vo.StatusInativo
	s.cancelledAt = timePtr(occurredAt)
	s.cancelReason = reason
	s.touch()
	return Transition{From: from, To: vo.StatusInativo, Applied: true, Reason: ReasonApplied}
}

// ScheduleNextDue moves nextDueDate forward. Earlier dates are ignored.
func (s *Subscriber) ScheduleNextDue(dueDate time.Time) Transition {
	if !laterThan(dueDate, s.nextDueDate) {
		return noChange(s.status, ReasonNoChange)
	}
	s.nextDueDate = timePtr(dueDate)
	s.touch()
	return Transition{From: s.status, To: s.status, Applied: true, Reason: ReasonApplied}
}

// Expire is the sweeper's ativo -> vencido step for coverage ending before cutoff.
func (s *Subscriber) Expire(cutoff time.Time) Transition {
	due := s.EffectiveDueDate()
	if s.status != vo.StatusAtivo || due == nil || !due.Before(cutoff) {
		return noChange(s.status, ReasonNoChange)
	}
	from := s.status
	s.status = vo.StatusVencido
	s.touch()
	return Transition{From: from, To: vo.StatusVencido, Applied: true, Reason: ReasonApplied}
}

// Inactivate is the sweeper's vencido -> inativo step.
func (s *Subscriber) Inactivate(cutoff time.Time) Transition {
	due := s.EffectiveDueDate()
	if s.status != vo.StatusVencido || due == nil || !due.Before(cutoff) {
		return noChange(s.status, ReasonNoChange)
	}
	from := s.status
	s.status = vo.StatusInativo
	s.cancelReason = "overdue_timeout"
	s.touch()
	return Transition{From: from, To: vo.StatusInativo, Applied: true, Reason: ReasonApplied}
}

// SetStatus is the operator override. Any valid status is accepted.
func (s *Subscriber) SetStatus(status vo.SubscriberStatus) (Transition, error) {
	if !status.IsValid() {
		return Transition{}, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	from := s.status
	if from == status {
		return noChange(from, ReasonNoChange), nil
	}

	s.status = status
	t := Transition{From: from, To: status, Applied: true, Reason: ReasonOperatorOverride}
	if status == vo.StatusAtivo && s.activatedAt == nil {
		s.activatedAt = timePtr(biztime.NowUTC())
		t.FirstActivation = true
	}
	if status == vo.StatusInativo {
		s.cancelledAt = timePtr(biztime.NowUTC())
		s.cancelReason = ReasonOperatorOverride
	}
	s.touch()
	return t, nil
}

// LinkGateway stores the gateway's identifiers. Empty values keep the current ones.
func (s *Subscriber) LinkGateway(provider shared.Provider, customerID, subscriptionID string) bool {
	changed := false
	if provider != "" && s.gateway != provider {
		s.gateway = provider
		changed = true
	}
	if customerID != "" && s.gatewayCustomerID != customerID {
		s.gatewayCustomerID = customerID
		changed = true
	}
	if subscriptionID != "" && s.gatewaySubscriptionID != subscriptionID {
		s.gatewaySubscriptionID = subscriptionID
		changed = true
	}
	if changed {
		s.touch()
	}
	return changed
}

type ProfileUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	PlanName     *string
	Amount       *shared.Money
	BillingCycle *vo.BillingCycle
}

func (s *Subscriber) UpdateProfile(u ProfileUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return ErrNameRequired
		}
		s.name = name
	}
	if u.Email != nil {
		s.email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Phone != nil {
		s.phone = shared.NormalizePhoneBR(*u.Phone)
	}
	if u.PlanName != nil {
		s.planName = strings.TrimSpace(*u.PlanName)
	}
	if u.Amount != nil {
		s.amount = *u.Amount
	}
	if u.BillingCycle != nil {
		if !u.BillingCycle.IsValid() {
			return vo.ErrInvalidBillingCycle
		}
		s.billingCycle = *u.BillingCycle
	}
	s.touch()
	return nil
}

func (s *Subscriber) touch() {
	s.updatedAt = biztime.NowUTC()
}

func laterThan(t time.Time, current *time.Time) bool {
	return current == nil || t.After(*current)
}

func timePtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
