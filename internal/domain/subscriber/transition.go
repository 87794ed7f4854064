package subscriber

import (
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
)

// Transition reasons, recorded as the webhook outcome.
const (
	ReasonApplied            = "applied"
	ReasonNoChange           = "no_change"
	ReasonStaleAfterCancel   = "stale_after_cancellation"
	ReasonStaleBeforeConfirm = "stale_before_confirmation"
	ReasonCoverageAhead      = "coverage_extends_past_due"
	ReasonCoverageBehind     = "coverage_not_extended"
	ReasonNotActive          = "not_active"
	ReasonAlreadyInactive    = "already_inactive"
	ReasonOperatorOverride   = "operator_override"
)

// Transition describes what a reconciliation operation did to a subscriber.
// Applied is true when any persisted field changed, even if the status did not.
type Transition struct {
	From            vo.SubscriberStatus
	To              vo.SubscriberStatus
	Applied         bool
	Reason          string
	FirstActivation bool
}

func (t Transition) StatusChanged() bool {
	return t.From != t.To
}

// IsStale reports whether the event was older than state already recorded.
func (t Transition) IsStale() bool {
	switch t.Reason {
	case ReasonStaleAfterCancel, ReasonStaleBeforeConfirm, ReasonCoverageAhead, ReasonCoverageBehind:
		return true
	}
	return false
}

func noChange(s vo.SubscriberStatus, reason string) Transition {
	return Transition{From: s, To: s, Reason: reason}
}
