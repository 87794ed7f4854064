package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
)

func planTestRun(t *testing.T, subscriberID uint, name vo.CadenceName, trigger time.Time) []*cadence.Message {
	t.Helper()
	c := cadence.Cadence{
		Name: name,
		Steps: []cadence.Step{
			{Delay: 0, Template: "Hi {{.FirstName}}"},
			{Delay: time.Minute, Template: "Second"},
			{Delay: time.Minute, Template: "Third"},
		},
	}
	msgs, err := cadence.PlanRun(subscriberID, c, trigger, "5511987654321", []string{"Hi Maria", "Second", "Third"})
	require.NoError(t, err)
	return msgs
}

func TestCadenceMessageRepository_ListDueHonoursStepOrder(t *testing.T) {
	repo := NewCadenceMessageRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	trigger := time.Now().UTC().Add(-time.Hour)

	msgs := planTestRun(t, 1, vo.CadenceWelcome, trigger)
	require.NoError(t, repo.CreateBatch(ctx, msgs))
	for _, m := range msgs {
		assert.NotZero(t, m.ID())
	}

	// all three send times are in the past, only the first step is released
	due, err := repo.ListDue(ctx, time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 0, due[0].StepIndex())

	due[0].MarkSent("wamid-1", time.Now().UTC())
	require.NoError(t, repo.Update(ctx, due[0]))

	next, err := repo.NextInRun(ctx, msgs[0].RunID(), 0)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 1, next.StepIndex())

	due, err = repo.ListDue(ctx, time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].StepIndex())
}

func TestCadenceMessageRepository_CancelPending(t *testing.T) {
	repo := NewCadenceMessageRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateBatch(ctx, planTestRun(t, 7, vo.CadenceOverdue, now)))
	require.NoError(t, repo.CreateBatch(ctx, planTestRun(t, 7, vo.CadenceWelcome, now)))

	pending, err := repo.HasPendingRun(ctx, 7, vo.CadenceOverdue)
	require.NoError(t, err)
	assert.True(t, pending)

	n, err := repo.CancelPending(ctx, 7, []vo.CadenceName{vo.CadenceOverdue}, cadence.OutcomeReactivated)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	pending, err = repo.HasPendingRun(ctx, 7, vo.CadenceOverdue)
	require.NoError(t, err)
	assert.False(t, pending)

	pending, err = repo.HasPendingRun(ctx, 7, vo.CadenceWelcome)
	require.NoError(t, err)
	assert.True(t, pending)

	list, total, err := repo.ListBySubscriber(ctx, 7, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, list, 6)

	n, err = repo.CancelPending(ctx, 7, nil, cadence.OutcomeOperatorRequest)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCadenceMessageRepository_UpdateLeavesCancelledMessage(t *testing.T) {
	repo := NewCadenceMessageRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	msgs := planTestRun(t, 3, vo.CadenceWelcome, now.Add(-time.Hour))
	require.NoError(t, repo.CreateBatch(ctx, msgs))

	due, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	_, err = repo.CancelPending(ctx, 3, nil, cadence.OutcomeInactivated)
	require.NoError(t, err)

	retryAt := now.Add(time.Minute)
	due[0].MarkAttemptFailed(errors.New("whatsapp: status 503"), &retryAt, now)
	assert.ErrorIs(t, repo.Update(ctx, due[0]), cadence.ErrMessageSuperseded)

	stored, err := repo.GetByID(ctx, due[0].ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, vo.MessageStatusCancelled, stored.Status())
	assert.Zero(t, stored.Attempts())

	pending, err := repo.HasPendingRun(ctx, 3, vo.CadenceWelcome)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestCadenceMessageRepository_GetByIDMissing(t *testing.T) {
	repo := NewCadenceMessageRepository(setupTestDB(t), testLogger())

	m, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, m)
}
