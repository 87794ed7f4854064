package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
)

func newTestEvent(t *testing.T, eventID string) *webhook.Event {
	t.Helper()
	e, err := webhook.NewEvent(shared.ProviderAsaas, eventID, "PAYMENT_CONFIRMED",
		[]byte(`{"id":"`+eventID+`","event":"PAYMENT_CONFIRMED"}`), time.Now().UTC())
	require.NoError(t, err)
	return e
}

func TestWebhookEventRepository_CreateDeduplicates(t *testing.T) {
	repo := NewWebhookEventRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	first := newTestEvent(t, "evt_1")
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID())

	err := repo.Create(ctx, newTestEvent(t, "evt_1"))
	assert.ErrorIs(t, err, webhook.ErrDuplicateEvent)

	stripeSame, err := webhook.NewEvent(shared.ProviderStripe, "evt_1", "invoice.paid", []byte(`{}`), time.Time{})
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, stripeSame))

	found, err := repo.GetByEventID(ctx, shared.ProviderAsaas, "evt_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.SID(), found.SID())
	assert.JSONEq(t, `{"id":"evt_1","event":"PAYMENT_CONFIRMED"}`, string(found.Payload()))
}

func TestWebhookEventRepository_RetryQueues(t *testing.T) {
	repo := NewWebhookEventRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	due := newTestEvent(t, "evt_due")
	require.NoError(t, repo.Create(ctx, due))
	due.StartAttempt()
	past := now.Add(-time.Minute)
	due.MarkFailed(errors.New("db down"), &past)
	require.NoError(t, repo.Update(ctx, due))

	later := newTestEvent(t, "evt_later")
	require.NoError(t, repo.Create(ctx, later))
	later.StartAttempt()
	future := now.Add(time.Hour)
	later.MarkFailed(errors.New("db down"), &future)
	require.NoError(t, repo.Update(ctx, later))

	exhausted := newTestEvent(t, "evt_exhausted")
	require.NoError(t, repo.Create(ctx, exhausted))
	exhausted.StartAttempt()
	exhausted.MarkFailed(errors.New("bad payload"), nil)
	require.NoError(t, repo.Update(ctx, exhausted))

	retryable, err := repo.ListRetryable(ctx, now, 5, 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, "evt_due", retryable[0].EventID())
	assert.Equal(t, 1, retryable[0].Attempts())

	unalerted, err := repo.ListExhaustedUnalerted(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, unalerted, 1)
	assert.Equal(t, "evt_exhausted", unalerted[0].EventID())

	unalerted[0].MarkAlerted()
	require.NoError(t, repo.Update(ctx, unalerted[0]))
	unalerted, err = repo.ListExhaustedUnalerted(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, unalerted)
}

func TestWebhookEventRepository_List(t *testing.T) {
	repo := NewWebhookEventRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	processed := newTestEvent(t, "evt_a")
	require.NoError(t, repo.Create(ctx, processed))
	subID := uint(42)
	processed.MarkProcessed("applied", &subID)
	require.NoError(t, repo.Update(ctx, processed))
	require.NoError(t, repo.Create(ctx, newTestEvent(t, "evt_b")))

	status := vo.EventStatusProcessed
	list, total, err := repo.List(ctx, webhook.ListFilter{Status: &status, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "applied", list[0].Outcome())
	require.NotNil(t, list[0].SubscriberID())
	assert.Equal(t, subID, *list[0].SubscriberID())

	_, total, err = repo.List(ctx, webhook.ListFilter{SubscriberID: &subID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, webhook.ListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
