package asaas

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	payvo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
)

func TestGateway_Verify(t *testing.T) {
	g := NewGateway("tok_123")

	h := http.Header{}
	h.Set(TokenHeader, "tok_123")
	assert.NoError(t, g.Verify(h, nil))

	h.Set(TokenHeader, "tok_124")
	assert.ErrorIs(t, g.Verify(h, nil), gateway.ErrInvalidSignature)

	assert.ErrorIs(t, g.Verify(http.Header{}, nil), gateway.ErrInvalidSignature)

	unset := NewGateway("")
	h.Set(TokenHeader, "")
	assert.ErrorIs(t, unset.Verify(h, nil), gateway.ErrInvalidSignature)
}

func TestGateway_ParseConfirmed(t *testing.T) {
	payload := `{
		"id": "evt_05b708f961d739ea7eba7e4db318f621&368604920",
		"event": "PAYMENT_CONFIRMED",
		"dateCreated": "2026-03-05 14:30:00",
		"payment": {
			"object": "payment",
			"id": "pay_080225913252",
			"customer": "cus_G7Dvo4iphUNk",
			"subscription": "sub_VXJBYgP2u0eO",
			"value": 59.9,
			"status": "CONFIRMED",
			"dueDate": "2026-03-05",
			"confirmedDate": "2026-03-05",
			"externalReference": "sub_abc123"
		}
	}`

	n, err := NewGateway("x").Parse([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_05b708f961d739ea7eba7e4db318f621&368604920", n.EventID)
	assert.Equal(t, gateway.ActionConfirm, n.Action)
	assert.Equal(t, "cus_G7Dvo4iphUNk", n.CustomerID)
	assert.Equal(t, "sub_VXJBYgP2u0eO", n.SubscriptionID)
	assert.Equal(t, "sub_abc123", n.SubscriberSID)

	wantOccurred := time.Date(2026, 3, 5, 14, 30, 0, 0, biztime.Location()).UTC()
	assert.True(t, n.OccurredAt.Equal(wantOccurred))

	require.NotNil(t, n.DueDate)
	assert.Equal(t, "2026-03-05", biztime.FormatDate(*n.DueDate))
	assert.Nil(t, n.CoverageEnd)

	require.NotNil(t, n.Payment)
	assert.Equal(t, "pay_080225913252", n.Payment.GatewayPaymentID)
	assert.Equal(t, payvo.PaymentStatusConfirmed, n.Payment.Status)
	require.NotNil(t, n.Payment.Amount)
	assert.Equal(t, int64(5990), n.Payment.Amount.AmountInCents())
	require.NotNil(t, n.Payment.PaidAt)
}

func TestGateway_ParseActions(t *testing.T) {
	tests := []struct {
		event      string
		action     gateway.Action
		status     payvo.PaymentStatus
		hasPayment bool
	}{
		{"PAYMENT_RECEIVED", gateway.ActionConfirm, payvo.PaymentStatusConfirmed, true},
		{"PAYMENT_RECEIVED_IN_CASH", gateway.ActionConfirm, payvo.PaymentStatusConfirmed, true},
		{"PAYMENT_OVERDUE", gateway.ActionOverdue, payvo.PaymentStatusOverdue, true},
		{"PAYMENT_REFUNDED", gateway.ActionCancel, payvo.PaymentStatusRefunded, true},
		{"PAYMENT_CHARGEBACK_REQUESTED", gateway.ActionCancel, payvo.PaymentStatusRefunded, true},
		{"PAYMENT_CREATED", gateway.ActionScheduleDue, payvo.PaymentStatusPending, true},
		{"PAYMENT_UPDATED", gateway.ActionScheduleDue, payvo.PaymentStatusPending, true},
		{"PAYMENT_BANK_SLIP_VIEWED", gateway.ActionIgnore, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			payload := `{"id":"evt_1","event":"` + tt.event + `","payment":{"id":"pay_1","customer":"cus_1","value":10,"status":"X","dueDate":"2026-04-01"}}`
			n, err := NewGateway("x").Parse([]byte(payload))
			require.NoError(t, err)
			assert.Equal(t, tt.action, n.Action)
			if tt.hasPayment {
				require.NotNil(t, n.Payment)
				assert.Equal(t, tt.status, n.Payment.Status)
			} else {
				assert.Nil(t, n.Payment)
			}
		})
	}
}

func TestGateway_ParseSubscriptionEvents(t *testing.T) {
	payload := `{"event":"SUBSCRIPTION_DELETED","subscription":{"id":"sub_9","customer":"cus_9","status":"INACTIVE","externalReference":"sub_local"}}`

	n, err := NewGateway("x").Parse([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, gateway.ActionCancel, n.Action)
	assert.Equal(t, "SUBSCRIPTION_DELETED:sub_9:INACTIVE", n.EventID)
	assert.Equal(t, "sub_9", n.SubscriptionID)
	assert.Equal(t, "sub_local", n.SubscriberSID)
	assert.Nil(t, n.Payment)
	assert.True(t, n.OccurredAt.IsZero())
}

func TestGateway_DerivedEventID(t *testing.T) {
	payload := `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_7","status":"CONFIRMED","dueDate":"2026-04-01"}}`

	n, err := NewGateway("x").Parse([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "PAYMENT_CONFIRMED:pay_7:CONFIRMED", n.EventID)
}

func TestGateway_ParseMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":         `{"event":`,
		"no event":         `{"id":"evt_1"}`,
		"no identity":      `{"event":"PAYMENT_CONFIRMED"}`,
		"bad due date":     `{"id":"e","event":"PAYMENT_OVERDUE","payment":{"id":"p","dueDate":"05/03/2026"}}`,
		"overdue w/o date": `{"id":"e","event":"PAYMENT_OVERDUE","payment":{"id":"p"}}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewGateway("x").Parse([]byte(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, gateway.ErrMalformedPayload))
		})
	}
}
