package valueobjects

import (
	"errors"
	"time"

	"github.com/beneficlub/backoffice/internal/shared/biztime"
)

var ErrInvalidBillingCycle = errors.New("invalid billing cycle")

type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

func NewBillingCycle(value string) (BillingCycle, error) {
	c := BillingCycle(value)
	if !c.IsValid() {
		return "", ErrInvalidBillingCycle
	}
	return c, nil
}

func (c BillingCycle) IsValid() bool {
	return c.Months() > 0
}

func (c BillingCycle) Months() int {
	switch c {
	case BillingCycleMonthly:
		return 1
	case BillingCycleQuarterly:
		return 3
	case BillingCycleYearly:
		return 12
	default:
		return 0
	}
}

// CoverageEnd returns the end of the period paid by a charge due at dueDate.
func (c BillingCycle) CoverageEnd(dueDate time.Time) time.Time {
	return biztime.AddMonths(dueDate, c.Months())
}

func (c BillingCycle) String() string {
	return string(c)
}
