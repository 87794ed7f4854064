package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// Outcomes of events that did not touch any subscriber.
const (
	OutcomeUnhandledEvent     = "unhandled_event"
	OutcomeSubscriberNotFound = "subscriber_not_found"
	OutcomeMissingDueDate     = "missing_due_date"
	OutcomeGatewayLinked      = "gateway_linked"
)

// ReconcileResult is what applying one notification did.
type ReconcileResult struct {
	SubscriberID *uint
	Ignored      bool
	Outcome      string
	Transition   subscriber.Transition
}

// Reconciler applies gateway notifications to subscribers and the payment
// ledger. Callers run it inside a transaction.
type Reconciler struct {
	subscriberRepo subscriber.Repository
	paymentRepo    payment.Repository
	cadence        CadenceTrigger
	logger         logger.Interface
}

func NewReconciler(
	subscriberRepo subscriber.Repository,
	paymentRepo payment.Repository,
	cadence CadenceTrigger,
	logger logger.Interface,
) *Reconciler {
	return &Reconciler{
		subscriberRepo: subscriberRepo,
		paymentRepo:    paymentRepo,
		cadence:        cadence,
		logger:         logger,
	}
}

// Reconcile applies n to its subscriber. n.OccurredAt orders the event
// against earlier transitions and must be set.
func (r *Reconciler) Reconcile(ctx context.Context, provider shared.Provider, n *gateway.Notification) (*ReconcileResult, error) {
	if n == nil || n.Action == gateway.ActionIgnore {
		return &ReconcileResult{Ignored: true, Outcome: OutcomeUnhandledEvent}, nil
	}

	sub, err := r.findSubscriber(ctx, n)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		r.logger.Warnw("webhook references unknown subscriber",
			"provider", provider,
			"event_type", n.EventType,
			"subscription_id", n.SubscriptionID,
			"customer_id", n.CustomerID,
			"subscriber_sid", n.SubscriberSID,
		)
		return &ReconcileResult{Ignored: true, Outcome: OutcomeSubscriberNotFound}, nil
	}

	subID := sub.ID()
	result := &ReconcileResult{SubscriberID: &subID}

	occurredAt := n.OccurredAt

	linked := sub.LinkGateway(provider, n.CustomerID, n.SubscriptionID)

	var t subscriber.Transition
	switch n.Action {
	case gateway.ActionConfirm:
		end, ok := coverageEnd(sub, n)
		if !ok {
			result.Ignored = true
			result.Outcome = OutcomeMissingDueDate
			return result, nil
		}
		t = sub.ConfirmPayment(occurredAt, end)
	case gateway.ActionOverdue:
		if n.DueDate == nil {
			result.Ignored = true
			result.Outcome = OutcomeMissingDueDate
			return result, nil
		}
		t = sub.MarkOverdue(occurredAt, *n.DueDate)
	case gateway.ActionCancel:
		t = sub.Cancel(occurredAt, n.CancelReason)
	case gateway.ActionScheduleDue:
		if n.DueDate == nil {
			result.Ignored = true
			result.Outcome = OutcomeMissingDueDate
			return result, nil
		}
		t = sub.ScheduleNextDue(*n.DueDate)
	case gateway.ActionLink:
		t = subscriber.Transition{From: sub.Status(), To: sub.Status(), Reason: subscriber.ReasonNoChange}
	default:
		result.Ignored = true
		result.Outcome = OutcomeUnhandledEvent
		return result, nil
	}

	if t.Applied || linked {
		if err := r.subscriberRepo.Update(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to update subscriber %s: %w", sub.SID(), err)
		}
	}

	if n.Payment != nil {
		if err := r.observePayment(ctx, provider, sub.ID(), n, occurredAt); err != nil {
			return nil, err
		}
	}

	if r.cadence != nil && t.Applied && (t.StatusChanged() || t.FirstActivation) {
		if err := r.cadence.OnTransition(ctx, sub, t, biztime.NowUTC()); err != nil {
			return nil, fmt.Errorf("failed to trigger cadence: %w", err)
		}
	}

	result.Transition = t
	result.Outcome = t.Reason
	if linked && !t.Applied {
		result.Outcome = OutcomeGatewayLinked
	}

	r.logger.Infow("webhook reconciled",
		"provider", provider,
		"event_type", n.EventType,
		"subscriber_sid", sub.SID(),
		"from", t.From,
		"to", t.To,
		"outcome", result.Outcome,
	)
	return result, nil
}

// findSubscriber tries the gateway subscription, then the gateway customer,
// then the subscriber SID carried in the charge metadata.
func (r *Reconciler) findSubscriber(ctx context.Context, n *gateway.Notification) (*subscriber.Subscriber, error) {
	lookups := []struct {
		key  string
		find func(context.Context, string) (*subscriber.Subscriber, error)
	}{
		{n.SubscriptionID, r.subscriberRepo.GetByGatewaySubscriptionID},
		{n.CustomerID, r.subscriberRepo.GetByGatewayCustomerID},
		{n.SubscriberSID, r.subscriberRepo.GetBySID},
	}
	for _, l := range lookups {
		if l.key == "" {
			continue
		}
		sub, err := l.find(ctx, l.key)
		if err != nil && !errors.Is(err, subscriber.ErrSubscriberNotFound) {
			return nil, fmt.Errorf("failed to look up subscriber: %w", err)
		}
		if sub != nil {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *Reconciler) observePayment(ctx context.Context, provider shared.Provider, subscriberID uint, n *gateway.Notification, occurredAt time.Time) error {
	info := n.Payment
	p, err := r.paymentRepo.GetByGatewayID(ctx, provider, info.GatewayPaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", info.GatewayPaymentID, err)
	}

	isNew := p == nil
	if isNew {
		p, err = payment.NewPayment(provider, info.GatewayPaymentID, subscriberID)
		if err != nil {
			return fmt.Errorf("invalid payment %s: %w", info.GatewayPaymentID, err)
		}
	}

	changed := p.Observe(payment.Observation{
		EventType:  n.EventType,
		OccurredAt: occurredAt,
		Status:     info.Status,
		Amount:     info.Amount,
		DueDate:    info.DueDate,
		PaidAt:     info.PaidAt,
	})

	if isNew {
		if err := r.paymentRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to record payment %s: %w", info.GatewayPaymentID, err)
		}
		return nil
	}
	if changed {
		if err := r.paymentRepo.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update payment %s: %w", info.GatewayPaymentID, err)
		}
	}
	return nil
}

// coverageEnd is the paid-until date of a confirmation: what the gateway
// states, else one billing cycle after the charge's due date.
func coverageEnd(sub *subscriber.Subscriber, n *gateway.Notification) (time.Time, bool) {
	if n.CoverageEnd != nil {
		return *n.CoverageEnd, true
	}
	due := n.DueDate
	if due == nil && n.Payment != nil {
		due = n.Payment.DueDate
	}
	if due == nil {
		return time.Time{}, false
	}
	return sub.BillingCycle().CoverageEnd(*due), true
}
