// Package gateway turns provider webhook deliveries into provider-neutral
// notifications for the reconciler.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	payvo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrUnknownProvider  = errors.New("unknown webhook provider")
)

// Action is the subscriber operation a notification asks for.
type Action string

const (
	ActionConfirm     Action = "confirm"
	ActionOverdue     Action = "overdue"
	ActionCancel      Action = "cancel"
	ActionScheduleDue Action = "schedule_due"
	ActionLink        Action = "link"
	ActionIgnore      Action = "ignore"
)

// PaymentInfo is the charge a notification talks about, if any.
type PaymentInfo struct {
	GatewayPaymentID string
	Status           payvo.PaymentStatus
	Amount           *shared.Money
	DueDate          *time.Time
	PaidAt           *time.Time
}

type Notification struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
	Action     Action

	// subscriber lookup keys, tried in this order
	SubscriptionID string
	CustomerID     string
	SubscriberSID  string

	DueDate *time.Time
	// CoverageEnd is set when the gateway states the paid period. Otherwise
	// the reconciler derives it from DueDate and the billing cycle.
	CoverageEnd  *time.Time
	CancelReason string
	Payment      *PaymentInfo
}

// Gateway authenticates and decodes the deliveries of one provider.
type Gateway interface {
	Provider() shared.Provider
	// Verify returns ErrInvalidSignature when the delivery is not authentic.
	Verify(headers http.Header, payload []byte) error
	// Parse returns ErrMalformedPayload for payloads it cannot decode.
	Parse(payload []byte) (*Notification, error)
}

// Registry resolves gateways by provider.
type Registry struct {
	gateways map[shared.Provider]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[shared.Provider]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Provider()] = g
	}
	return r
}

func (r *Registry) Get(provider shared.Provider) (Gateway, error) {
	g, ok := r.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return g, nil
}
