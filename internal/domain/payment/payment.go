package payment

import (
	"errors"
	"fmt"
	"time"

	vo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Payment is the ledger row for one gateway charge (an Asaas payment or a
// Stripe invoice). It is keyed by (provider, gatewayPaymentID).
type Payment struct {
	id               uint
	sid              string
	provider         shared.Provider
	gatewayPaymentID string
	subscriberID     uint
	amount           shared.Money
	status           vo.PaymentStatus
	dueDate          *time.Time
	paidAt           *time.Time
	lastEventType    string
	lastEventAt      time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

func NewPayment(provider shared.Provider, gatewayPaymentID string, subscriberID uint) (*Payment, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid payment provider: %s", provider)
	}
	if gatewayPaymentID == "" {
		return nil, fmt.Errorf("gateway payment ID is required")
	}
	if subscriberID == 0 {
		return nil, fmt.Errorf("subscriber ID is required")
	}

	now := biztime.NowUTC()
	return &Payment{
		sid:              id.NewPaymentID(),
		provider:         provider,
		gatewayPaymentID: gatewayPaymentID,
		subscriberID:     subscriberID,
		status:           vo.PaymentStatusPending,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

type ReconstructParams struct {
	ID               uint
	SID              string
	Provider         shared.Provider
	GatewayPaymentID string
	SubscriberID     uint
	Amount           shared.Money
	Status           vo.PaymentStatus
	DueDate          *time.Time
	PaidAt           *time.Time
	LastEventType    string
	LastEventAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructPaymentWithParams(p ReconstructParams) *Payment {
	return &Payment{
		id:               p.ID,
		sid:              p.SID,
		provider:         p.Provider,
		gatewayPaymentID: p.GatewayPaymentID,
		subscriberID:     p.SubscriberID,
		amount:           p.Amount,
		status:           p.Status,
		dueDate:          p.DueDate,
		paidAt:           p.PaidAt,
		lastEventType:    p.LastEventType,
		lastEventAt:      p.LastEventAt,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}
}

func (p *Payment) ID() uint                  { return p.id }
func (p *Payment) SID() string               { return p.sid }
func (p *Payment) Provider() shared.Provider { return p.provider }
func (p *Payment) GatewayPaymentID() string  { return p.gatewayPaymentID }
func (p *Payment) SubscriberID() uint        { return p.subscriberID }
func (p *Payment) Amount() shared.Money      { return p.amount }
func (p *Payment) Status() vo.PaymentStatus  { return p.status }
func (p *Payment) DueDate() *time.Time       { return p.dueDate }
func (p *Payment) PaidAt() *time.Time        { return p.paidAt }
func (p *Payment) LastEventType() string     { return p.lastEventType }
func (p *Payment) LastEventAt() time.Time    { return p.lastEventAt }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time      { return p.updatedAt }

func (p *Payment) SetID(newID uint) {
	p.id = newID
}

// Observation is what one gateway event says about a charge.
type Observation struct {
	EventType  string
	OccurredAt time.Time
	Status     vo.PaymentStatus
	Amount     *shared.Money
	DueDate    *time.Time
	PaidAt     *time.Time
}

// Observe folds a gateway event into the ledger row. The status only moves
// forward by rank. Amount and due date follow the newest event. It returns
// whether anything changed.
func (p *Payment) Observe(o Observation) bool {
	changed := false

	if o.Status.IsValid() && o.Status.Supersedes(p.status) {
		p.status = o.Status
		changed = true
	}
	if o.PaidAt != nil && p.paidAt == nil {
		p.paidAt = o.PaidAt
		changed = true
	}

	if !o.OccurredAt.Before(p.lastEventAt) {
		if o.Amount != nil && !o.Amount.Equals(p.amount) {
			p.amount = *o.Amount
			changed = true
		}
		if o.DueDate != nil && (p.dueDate == nil || !o.DueDate.Equal(*p.dueDate)) {
			p.dueDate = o.DueDate
			changed = true
		}
		if o.EventType != p.lastEventType || !o.OccurredAt.Equal(p.lastEventAt) {
			p.lastEventType = o.EventType
			p.lastEventAt = o.OccurredAt
			changed = true
		}
	}

	if changed {
		p.updatedAt = biztime.NowUTC()
	}
	return changed
}
