// Package asaas verifies and decodes Asaas webhook deliveries.
package asaas

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	payvo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
)

// TokenHeader carries the access token configured on the Asaas webhook.
const TokenHeader = "asaas-access-token"

// Asaas sends local timestamps without a zone.
const dateTimeLayout = "2006-01-02 15:04:05"

type envelope struct {
	ID           string              `json:"id"`
	Event        string              `json:"event"`
	DateCreated  string              `json:"dateCreated"`
	Payment      *paymentObject      `json:"payment"`
	Subscription *subscriptionObject `json:"subscription"`
}

type paymentObject struct {
	ID                string           `json:"id"`
	Customer          string           `json:"customer"`
	Subscription      string           `json:"subscription"`
	Value             *decimal.Decimal `json:"value"`
	Status            string           `json:"status"`
	DueDate           string           `json:"dueDate"`
	PaymentDate       string           `json:"paymentDate"`
	ConfirmedDate     string           `json:"confirmedDate"`
	ClientPaymentDate string           `json:"clientPaymentDate"`
	ExternalReference string           `json:"externalReference"`
}

type subscriptionObject struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	NextDueDate       string `json:"nextDueDate"`
	ExternalReference string `json:"externalReference"`
}

type Gateway struct {
	token string
}

func NewGateway(token string) *Gateway {
	return &Gateway{token: token}
}

func (g *Gateway) Provider() shared.Provider {
	return shared.ProviderAsaas
}

// Verify compares the access token header in constant time. An unset token
// rejects every delivery.
func (g *Gateway) Verify(headers http.Header, _ []byte) error {
	got := headers.Get(TokenHeader)
	if g.token == "" || got == "" {
		return gateway.ErrInvalidSignature
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(g.token)) != 1 {
		return gateway.ErrInvalidSignature
	}
	return nil
}

func (g *Gateway) Parse(payload []byte) (*gateway.Notification, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrMalformedPayload, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event", gateway.ErrMalformedPayload)
	}

	n := &gateway.Notification{
		EventID:    eventID(env),
		EventType:  env.Event,
		OccurredAt: parseDateTime(env.DateCreated),
		Action:     gateway.ActionIgnore,
	}
	if n.EventID == "" {
		return nil, fmt.Errorf("%w: cannot identify event %s", gateway.ErrMalformedPayload, env.Event)
	}

	switch {
	case env.Payment != nil:
		if err := applyPayment(n, env.Payment); err != nil {
			return nil, err
		}
	case env.Subscription != nil:
		applySubscription(n, env.Subscription)
	}
	return n, nil
}

// eventID is the delivery id or, for payloads that lack one, the charge and
// its status, which is unique per state change.
func eventID(env envelope) string {
	if env.ID != "" {
		return env.ID
	}
	switch {
	case env.Payment != nil && env.Payment.ID != "":
		return fmt.Sprintf("%s:%s:%s", env.Event, env.Payment.ID, env.Payment.Status)
	case env.Subscription != nil && env.Subscription.ID != "":
		return fmt.Sprintf("%s:%s:%s", env.Event, env.Subscription.ID, env.Subscription.Status)
	}
	return ""
}

func applyPayment(n *gateway.Notification, p *paymentObject) error {
	n.CustomerID = p.Customer
	n.SubscriptionID = p.Subscription
	n.SubscriberSID = strings.TrimSpace(p.ExternalReference)

	due, err := parseDate(p.DueDate)
	if err != nil {
		return err
	}
	n.DueDate = due

	info := &gateway.PaymentInfo{
		GatewayPaymentID: p.ID,
		DueDate:          due,
	}
	if p.Value != nil {
		amount := shared.MoneyFromDecimal(*p.Value, shared.CurrencyBRL)
		info.Amount = &amount
	}

	switch n.EventType {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED", "PAYMENT_RECEIVED_IN_CASH":
		n.Action = gateway.ActionConfirm
		info.Status = payvo.PaymentStatusConfirmed
		info.PaidAt = firstDate(p.ConfirmedDate, p.PaymentDate, p.ClientPaymentDate)
		if info.PaidAt == nil {
			t := n.OccurredAt
			info.PaidAt = &t
		}
	case "PAYMENT_OVERDUE":
		n.Action = gateway.ActionOverdue
		info.Status = payvo.PaymentStatusOverdue
	case "PAYMENT_REFUNDED", "PAYMENT_CHARGEBACK_REQUESTED":
		n.Action = gateway.ActionCancel
		n.CancelReason = strings.ToLower(n.EventType)
		info.Status = payvo.PaymentStatusRefunded
	case "PAYMENT_CREATED", "PAYMENT_UPDATED":
		n.Action = gateway.ActionScheduleDue
		info.Status = payvo.PaymentStatusPending
	}

	if p.ID != "" && n.Action != gateway.ActionIgnore {
		n.Payment = info
	}
	if (n.Action == gateway.ActionOverdue || n.Action == gateway.ActionScheduleDue) && n.DueDate == nil {
		return fmt.Errorf("%w: %s without dueDate", gateway.ErrMalformedPayload, n.EventType)
	}
	return nil
}

func applySubscription(n *gateway.Notification, s *subscriptionObject) {
	n.CustomerID = s.Customer
	n.SubscriptionID = s.ID
	n.SubscriberSID = strings.TrimSpace(s.ExternalReference)

	switch n.EventType {
	case "SUBSCRIPTION_DELETED", "SUBSCRIPTION_INACTIVATED":
		n.Action = gateway.ActionCancel
		n.CancelReason = strings.ToLower(n.EventType)
	case "SUBSCRIPTION_CREATED":
		n.Action = gateway.ActionLink
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := biztime.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrMalformedPayload, err)
	}
	return &t, nil
}

func firstDate(values ...string) *time.Time {
	for _, v := range values {
		if t, err := parseDate(v); err == nil && t != nil {
			return t
		}
	}
	return nil
}

// parseDateTime returns the zero time when the timestamp is missing or
// unreadable; the event then counts as occurring when it was received.
func parseDateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateTimeLayout, s, biztime.Location())
	if err != nil {
		if d, derr := biztime.ParseDate(s); derr == nil {
			return d
		}
		return time.Time{}
	}
	return t.UTC()
}
