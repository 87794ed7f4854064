package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/shared/logger"
)

func TestValidateCron(t *testing.T) {
	from := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	next, err := ValidateCron("0 3 * * *", from)
	require.NoError(t, err)
	assert.True(t, next.After(from))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	_, err = ValidateCron("every day", from)
	assert.Error(t, err)

	_, err = ValidateCron("0 3 * *", from)
	assert.Error(t, err)
}

func TestSchedulerManager_RegistersJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	noop := BatchJobFunc(func(context.Context) (int, error) { return 0, nil })

	require.NoError(t, m.RegisterSweeperJob("", noop))
	require.NoError(t, m.RegisterCadenceDispatchJob(0, noop))
	require.NoError(t, m.RegisterWebhookRetryJobs(0, noop, nil))

	names := make([]string, 0)
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"subscriber-sweeper", "cadence-dispatcher", "webhook-retry"}, names)

	require.NoError(t, m.Stop())
}

func TestSchedulerManager_RejectsInvalidSweeperCron(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)
	defer func() { _ = m.Stop() }()

	err = m.RegisterSweeperJob("61 * * * *", BatchJobFunc(func(context.Context) (int, error) { return 0, nil }))
	assert.Error(t, err)
	assert.Empty(t, m.Jobs())
}

func TestSchedulerManager_RunsImmediateJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	var dispatched, retried, alerted atomic.Int32
	require.NoError(t, m.RegisterCadenceDispatchJob(time.Hour, BatchJobFunc(func(context.Context) (int, error) {
		dispatched.Add(1)
		return 2, nil
	})))
	require.NoError(t, m.RegisterWebhookRetryJobs(time.Hour,
		BatchJobFunc(func(context.Context) (int, error) {
			retried.Add(1)
			return 0, errors.New("db down")
		}),
		BatchJobFunc(func(context.Context) (int, error) {
			alerted.Add(1)
			return 0, nil
		}),
	))

	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool {
		return dispatched.Load() == 1 && retried.Load() == 1 && alerted.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}
