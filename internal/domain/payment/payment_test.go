package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
)

func newPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(shared.ProviderAsaas, "pay_080225913252", 42)
	require.NoError(t, err)
	return p
}

func TestNewPayment_Validation(t *testing.T) {
	_, err := NewPayment("pagseguro", "x", 1)
	assert.Error(t, err)
	_, err = NewPayment(shared.ProviderAsaas, "", 1)
	assert.Error(t, err)
	_, err = NewPayment(shared.ProviderAsaas, "x", 0)
	assert.Error(t, err)
}

func TestObserve_StatusNeverMovesBackwards(t *testing.T) {
	p := newPayment(t)
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	amount := shared.NewMoney(5990, "")

	assert.True(t, p.Observe(Observation{
		EventType: "PAYMENT_RECEIVED", OccurredAt: t0.Add(time.Hour),
		Status: vo.PaymentStatusConfirmed, Amount: &amount, PaidAt: &t0,
	}))
	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status())

	// late PAYMENT_OVERDUE delivered after the confirmation
	changed := p.Observe(Observation{
		EventType: "PAYMENT_OVERDUE", OccurredAt: t0,
		Status: vo.PaymentStatusOverdue,
	})
	assert.False(t, changed)
	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status())
	assert.Equal(t, "PAYMENT_RECEIVED", p.LastEventType())

	assert.True(t, p.Observe(Observation{
		EventType: "PAYMENT_REFUNDED", OccurredAt: t0.Add(48 * time.Hour),
		Status: vo.PaymentStatusRefunded,
	}))
	assert.True(t, p.Status().IsFinal())

	assert.False(t, p.Observe(Observation{
		EventType: "PAYMENT_RECEIVED", OccurredAt: t0.Add(time.Hour),
		Status: vo.PaymentStatusConfirmed, Amount: &amount, PaidAt: &t0,
	}), "replay is a no-op")
}

func TestObserve_NewestEventUpdatesDueDate(t *testing.T) {
	p := newPayment(t)
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	due1 := time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	due2 := time.Date(2024, 6, 15, 3, 0, 0, 0, time.UTC)

	p.Observe(Observation{EventType: "PAYMENT_UPDATED", OccurredAt: t0.Add(time.Hour), Status: vo.PaymentStatusPending, DueDate: &due2})
	p.Observe(Observation{EventType: "PAYMENT_CREATED", OccurredAt: t0, Status: vo.PaymentStatusPending, DueDate: &due1})

	assert.Equal(t, due2, *p.DueDate())
}
