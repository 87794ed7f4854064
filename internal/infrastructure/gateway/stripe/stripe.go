// Package stripe verifies and decodes Stripe webhook deliveries.
package stripe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	payvo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
)

const SignatureHeader = "Stripe-Signature"

// MetadataSubscriberSID is the metadata key checkout sessions and
// subscriptions carry to point back at our subscriber.
const MetadataSubscriberSID = "subscriber_sid"

type Gateway struct {
	secret    string
	tolerance time.Duration
}

func NewGateway(secret string, tolerance time.Duration) *Gateway {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Gateway{secret: secret, tolerance: tolerance}
}

func (g *Gateway) Provider() shared.Provider {
	return shared.ProviderStripe
}

func (g *Gateway) Verify(headers http.Header, payload []byte) error {
	sig := headers.Get(SignatureHeader)
	if g.secret == "" || sig == "" {
		return gateway.ErrInvalidSignature
	}
	if err := webhook.ValidatePayloadWithTolerance(payload, sig, g.secret, g.tolerance); err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrInvalidSignature, err)
	}
	return nil
}

func (g *Gateway) Parse(payload []byte) (*gateway.Notification, error) {
	var evt stripeapi.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrMalformedPayload, err)
	}
	if evt.ID == "" || evt.Type == "" {
		return nil, fmt.Errorf("%w: missing event id or type", gateway.ErrMalformedPayload)
	}

	n := &gateway.Notification{
		EventID:   evt.ID,
		EventType: string(evt.Type),
		Action:    gateway.ActionIgnore,
	}
	if evt.Created > 0 {
		n.OccurredAt = time.Unix(evt.Created, 0).UTC()
	}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return n, nil
	}

	var err error
	switch evt.Type {
	case "checkout.session.completed":
		err = applyCheckoutSession(n, evt.Data.Raw)
	case "invoice.paid", "invoice.payment_succeeded":
		err = applyInvoice(n, evt.Data.Raw, true)
	case "invoice.payment_failed":
		err = applyInvoice(n, evt.Data.Raw, false)
	case "customer.subscription.updated", "customer.subscription.deleted":
		err = applySubscription(n, evt.Data.Raw, evt.Type == "customer.subscription.deleted")
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func applyCheckoutSession(n *gateway.Notification, raw json.RawMessage) error {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("%w: checkout session: %v", gateway.ErrMalformedPayload, err)
	}
	n.Action = gateway.ActionLink
	n.CustomerID = customerID(session.Customer)
	n.SubscriptionID = subscriptionID(session.Subscription)
	n.SubscriberSID = session.ClientReferenceID
	if n.SubscriberSID == "" {
		n.SubscriberSID = session.Metadata[MetadataSubscriberSID]
	}
	return nil
}

func applyInvoice(n *gateway.Notification, raw json.RawMessage, paid bool) error {
	var inv stripeapi.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return fmt.Errorf("%w: invoice: %v", gateway.ErrMalformedPayload, err)
	}
	n.CustomerID = customerID(inv.Customer)
	n.SubscriptionID = subscriptionID(inv.Subscription)
	n.SubscriberSID = inv.Metadata[MetadataSubscriberSID]

	start, end := invoicePeriod(&inv)
	info := &gateway.PaymentInfo{GatewayPaymentID: inv.ID}

	if paid {
		if end.IsZero() {
			return fmt.Errorf("%w: invoice %s without period", gateway.ErrMalformedPayload, inv.ID)
		}
		n.Action = gateway.ActionConfirm
		n.CoverageEnd = &end
		info.Status = payvo.PaymentStatusConfirmed
		amount := shared.NewMoney(inv.AmountPaid, strings.ToUpper(string(inv.Currency)))
		info.Amount = &amount
		paidAt := n.OccurredAt
		if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
			paidAt = time.Unix(inv.StatusTransitions.PaidAt, 0).UTC()
		}
		info.PaidAt = &paidAt
	} else {
		if start.IsZero() {
			return fmt.Errorf("%w: invoice %s without period", gateway.ErrMalformedPayload, inv.ID)
		}
		n.Action = gateway.ActionOverdue
		n.DueDate = &start
		info.Status = payvo.PaymentStatusOverdue
		amount := shared.NewMoney(inv.AmountDue, strings.ToUpper(string(inv.Currency)))
		info.Amount = &amount
	}
	if inv.DueDate > 0 {
		due := time.Unix(inv.DueDate, 0).UTC()
		info.DueDate = &due
	} else if !start.IsZero() {
		info.DueDate = &start
	}

	if inv.ID != "" {
		n.Payment = info
	}
	return nil
}

// invoicePeriod is the service period the invoice pays for: the span of its
// line items, falling back to the invoice's own period.
func invoicePeriod(inv *stripeapi.Invoice) (time.Time, time.Time) {
	var start, end int64
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			if line == nil || line.Period == nil {
				continue
			}
			if start == 0 || (line.Period.Start > 0 && line.Period.Start < start) {
				start = line.Period.Start
			}
			if line.Period.End > end {
				end = line.Period.End
			}
		}
	}
	if start == 0 {
		start = inv.PeriodStart
	}
	if end == 0 {
		end = inv.PeriodEnd
	}
	return unixOrZero(start), unixOrZero(end)
}

func applySubscription(n *gateway.Notification, raw json.RawMessage, deleted bool) error {
	var sub stripeapi.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("%w: subscription: %v", gateway.ErrMalformedPayload, err)
	}
	n.CustomerID = customerID(sub.Customer)
	n.SubscriptionID = sub.ID
	n.SubscriberSID = sub.Metadata[MetadataSubscriberSID]

	if deleted {
		n.Action = gateway.ActionCancel
		n.CancelReason = "stripe_subscription_deleted"
		return nil
	}

	switch sub.Status {
	case stripeapi.SubscriptionStatusActive, stripeapi.SubscriptionStatusTrialing:
		end := unixOrZero(sub.CurrentPeriodEnd)
		if end.IsZero() {
			return fmt.Errorf("%w: subscription %s without current period", gateway.ErrMalformedPayload, sub.ID)
		}
		n.Action = gateway.ActionConfirm
		n.CoverageEnd = &end
	case stripeapi.SubscriptionStatusPastDue, stripeapi.SubscriptionStatusUnpaid:
		start := unixOrZero(sub.CurrentPeriodStart)
		if start.IsZero() {
			return fmt.Errorf("%w: subscription %s without current period", gateway.ErrMalformedPayload, sub.ID)
		}
		n.Action = gateway.ActionOverdue
		n.DueDate = &start
	case stripeapi.SubscriptionStatusCanceled:
		n.Action = gateway.ActionCancel
		n.CancelReason = "stripe_subscription_canceled"
	}
	return nil
}

func customerID(c *stripeapi.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func subscriptionID(s *stripeapi.Subscription) string {
	if s == nil {
		return ""
	}
	return s.ID
}

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
