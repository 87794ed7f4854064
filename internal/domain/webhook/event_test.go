package webhook

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
)

func newEvent(t *testing.T) *Event {
	t.Helper()
	e, err := NewEvent(shared.ProviderAsaas, "evt_1", "PAYMENT_RECEIVED", []byte(`{}`), time.Time{})
	require.NoError(t, err)
	return e
}

func TestNewEvent(t *testing.T) {
	e := newEvent(t)
	assert.Equal(t, vo.EventStatusReceived, e.Status())
	assert.False(t, e.OccurredAt().IsZero())
	assert.True(t, strings.HasPrefix(e.SID(), "whk_"))

	_, err := NewEvent(shared.ProviderStripe, " ", "invoice.paid", nil, time.Now())
	assert.Error(t, err)
}

func TestEvent_Lifecycle(t *testing.T) {
	e := newEvent(t)
	subID := uint(9)

	e.StartAttempt()
	next := time.Now().Add(time.Minute)
	e.MarkFailed(errors.New(strings.Repeat("x", 2000)), &next)
	assert.Equal(t, vo.EventStatusFailed, e.Status())
	assert.Len(t, e.LastError(), maxErrorLength)

	e.MarkFailed(errors.New(strings.Repeat("ç", 700)), &next)
	assert.Len(t, e.LastError(), maxErrorLength)
	assert.True(t, utf8.ValidString(e.LastError()))
	assert.False(t, e.RetriesExhausted(8))
	assert.True(t, e.RetriesExhausted(1))

	e.StartAttempt()
	assert.Equal(t, 2, e.Attempts())
	assert.Nil(t, e.NextAttemptAt())

	e.MarkProcessed("applied", &subID)
	assert.True(t, e.Status().IsDone())
	assert.Empty(t, e.LastError())
	assert.Equal(t, subID, *e.SubscriberID())
	assert.NotNil(t, e.ProcessedAt())
}

func TestEvent_NeedsProcessing(t *testing.T) {
	now := time.Now()

	fresh := newEvent(t)
	assert.False(t, fresh.NeedsProcessing(now, 5*time.Minute))
	assert.True(t, fresh.NeedsProcessing(now.Add(10*time.Minute), 5*time.Minute))

	done := newEvent(t)
	done.MarkIgnored("unhandled_event", nil)
	assert.False(t, done.NeedsProcessing(now.Add(time.Hour), 0))

	failed := newEvent(t)
	failed.MarkFailed(errors.New("db down"), nil)
	assert.True(t, failed.NeedsProcessing(now, time.Hour))
	assert.True(t, failed.RetriesExhausted(8))
}

func TestExponentialRetryPolicy(t *testing.T) {
	p := ExponentialRetryPolicy{Initial: time.Minute, Max: time.Hour}

	assert.Equal(t, time.Minute, p.NextDelay(1))
	assert.Equal(t, 2*time.Minute, p.NextDelay(2))
	assert.Equal(t, 32*time.Minute, p.NextDelay(6))
	assert.Equal(t, time.Hour, p.NextDelay(7))
	assert.Equal(t, time.Hour, p.NextDelay(30))
	assert.Equal(t, time.Minute, ExponentialRetryPolicy{}.NextDelay(0))
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "webhook:lock:stripe:evt_123", LockKey(shared.ProviderStripe, "evt_123"))
}
