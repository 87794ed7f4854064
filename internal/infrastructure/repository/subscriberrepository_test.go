package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
)

func newTestSubscriber(t *testing.T, name, document string) *subscriber.Subscriber {
	t.Helper()
	s, err := subscriber.NewSubscriber(subscriber.CreateParams{
		Kind:         vo.KindIndividual,
		Name:         name,
		Document:     document,
		Email:        "member@example.com",
		Phone:        "11987654321",
		PlanName:     "Essencial",
		Amount:       shared.NewMoney(5990, shared.CurrencyBRL),
		BillingCycle: vo.BillingCycleMonthly,
	})
	require.NoError(t, err)
	return s
}

func TestSubscriberRepository_CreateAndGet(t *testing.T) {
	repo := NewSubscriberRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	s := newTestSubscriber(t, "Maria Souza", "52998224725")
	require.NoError(t, repo.Create(ctx, s))
	assert.NotZero(t, s.ID())
	assert.Equal(t, 1, s.Version())

	found, err := repo.GetBySID(ctx, s.SID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, s.ID(), found.ID())
	assert.Equal(t, "Maria Souza", found.Name())
	assert.Equal(t, int64(5990), found.Amount().AmountInCents())
	assert.Equal(t, vo.StatusInativo, found.Status())

	byDoc, err := repo.GetByDocument(ctx, "52998224725")
	require.NoError(t, err)
	require.NotNil(t, byDoc)
	assert.Equal(t, s.SID(), byDoc.SID())

	missing, err := repo.GetBySID(ctx, "sub_missing")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSubscriberRepository_DuplicateDocument(t *testing.T) {
	repo := NewSubscriberRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestSubscriber(t, "Maria Souza", "52998224725")))
	err := repo.Create(ctx, newTestSubscriber(t, "Maria Clone", "529.982.247-25"))
	assert.ErrorIs(t, err, subscriber.ErrDocumentExists)
}

func TestSubscriberRepository_UpdateVersionConflict(t *testing.T) {
	repo := NewSubscriberRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	s := newTestSubscriber(t, "Maria Souza", "52998224725")
	require.NoError(t, repo.Create(ctx, s))

	first, err := repo.GetByID(ctx, s.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, s.ID())
	require.NoError(t, err)

	now := time.Now().UTC()
	first.ConfirmPayment(now, now.AddDate(0, 1, 0))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	second.LinkGateway(shared.ProviderAsaas, "cus_123", "")
	assert.ErrorIs(t, repo.Update(ctx, second), subscriber.ErrVersionConflict)

	reloaded, err := repo.GetByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusAtivo, reloaded.Status())
	assert.Equal(t, 2, reloaded.Version())
}

func TestSubscriberRepository_GatewayLookups(t *testing.T) {
	repo := NewSubscriberRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	s := newTestSubscriber(t, "Maria Souza", "52998224725")
	s.LinkGateway(shared.ProviderStripe, "cus_abc", "sub_stripe_1")
	require.NoError(t, repo.Create(ctx, s))

	byCustomer, err := repo.GetByGatewayCustomerID(ctx, "cus_abc")
	require.NoError(t, err)
	require.NotNil(t, byCustomer)
	assert.Equal(t, s.ID(), byCustomer.ID())

	bySub, err := repo.GetByGatewaySubscriptionID(ctx, "sub_stripe_1")
	require.NoError(t, err)
	require.NotNil(t, bySub)

	none, err := repo.GetByGatewayCustomerID(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubscriberRepository_FindExpirable(t *testing.T) {
	repo := NewSubscriberRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	lapsed := newTestSubscriber(t, "Lapsed Member", "52998224725")
	lapsed.ConfirmPayment(now.AddDate(0, -2, 0), now.AddDate(0, 0, -3))
	require.NoError(t, repo.Create(ctx, lapsed))

	current := newTestSubscriber(t, "Current Member", "11144477735")
	current.ConfirmPayment(now, now.AddDate(0, 0, 20))
	require.NoError(t, repo.Create(ctx, current))

	list, err := repo.FindExpirable(ctx, now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, lapsed.SID(), list[0].SID())

	none, err := repo.FindInactivatable(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSubscriberRepository_List(t *testing.T) {
	repo := NewSubscriberRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestSubscriber(t, "Maria Souza", "52998224725")))
	require.NoError(t, repo.Create(ctx, newTestSubscriber(t, "Joao Lima", "11144477735")))

	list, total, err := repo.List(ctx, subscriber.ListFilter{Search: "maria", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Maria Souza", list[0].Name())

	inativo := vo.StatusInativo
	_, total, err = repo.List(ctx, subscriber.ListFilter{Status: &inativo, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
