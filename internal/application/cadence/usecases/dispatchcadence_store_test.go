package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	cadencevo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/infrastructure/repository"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

func newStoreRepo(t *testing.T) cadence.Repository {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return repository.NewCadenceMessageRepository(gdb, logger.NewNopLogger())
}

func seedRun(t *testing.T, repo cadence.Repository, subscriberID uint) []*cadence.Message {
	t.Helper()
	c := cadence.Cadence{Name: cadencevo.CadenceWelcome, Steps: []cadence.Step{
		{Delay: 0, Template: "Oi"},
		{Delay: time.Hour, Template: "Dia 2"},
	}}
	msgs, err := cadence.PlanRun(subscriberID, c, time.Now().UTC().Add(-time.Minute), "5511987654321", []string{"Oi", "Dia 2"})
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(context.Background(), msgs))
	return msgs
}

// inactivatingSender cancels the subscriber's messages while the send is in
// flight and then fails with a retryable error.
type inactivatingSender struct {
	repo         cadence.Repository
	subscriberID uint
	calls        int
}

func (s *inactivatingSender) Send(ctx context.Context, _, _ string) (string, error) {
	s.calls++
	if _, err := s.repo.CancelPending(ctx, s.subscriberID, nil, cadence.OutcomeInactivated); err != nil {
		return "", err
	}
	return "", errors.New("whatsapp: status 503")
}

func newStoreDispatcher(repo cadence.Repository, sender Sender) *DispatchCadenceUseCase {
	return NewDispatchCadenceUseCase(repo, sender, passthroughTx{}, nil, fixedRetryPolicy(time.Minute),
		func(error) bool { return true }, 10, 3, logger.NewNopLogger())
}

func TestDispatchCadence_CancelledDuringSendStaysCancelled(t *testing.T) {
	repo := newStoreRepo(t)
	ctx := context.Background()
	seedRun(t, repo, 9)

	sender := &inactivatingSender{repo: repo, subscriberID: 9}
	sent, err := newStoreDispatcher(repo, sender).Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 1, sender.calls)

	msgs, _, err := repo.ListBySubscriber(ctx, 9, 1, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, cadencevo.MessageStatusCancelled, m.Status(), "step %d", m.StepIndex())
	}

	pending, err := repo.HasPendingRun(ctx, 9, cadencevo.CadenceWelcome)
	require.NoError(t, err)
	assert.False(t, pending)

	due, err := repo.ListDue(ctx, time.Now().UTC().Add(24*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDispatchCadence_SkipsMessageSettledAfterListing(t *testing.T) {
	repo := newStoreRepo(t)
	ctx := context.Background()
	seedRun(t, repo, 4)

	due, err := repo.ListDue(ctx, time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	_, err = repo.CancelPending(ctx, 4, nil, cadence.OutcomeOperatorRequest)
	require.NoError(t, err)

	sender := &fakeSender{}
	ok, err := newStoreDispatcher(repo, sender).deliver(ctx, due[0])
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, sender.calls, "a cancelled message is never sent")
}
