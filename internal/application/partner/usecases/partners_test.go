package usecases

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/partner"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type memPartnerRepository struct {
	partners []*partner.Partner
	nextID   uint
}

func (r *memPartnerRepository) Create(_ context.Context, p *partner.Partner) error {
	r.nextID++
	p.SetID(r.nextID)
	r.partners = append(r.partners, p)
	return nil
}

func (r *memPartnerRepository) Update(context.Context, *partner.Partner) error { return nil }

func (r *memPartnerRepository) Delete(_ context.Context, id uint) error {
	r.partners = lo.Reject(r.partners, func(p *partner.Partner, _ int) bool { return p.ID() == id })
	return nil
}

func (r *memPartnerRepository) GetBySID(_ context.Context, sid string) (*partner.Partner, error) {
	p, ok := lo.Find(r.partners, func(p *partner.Partner) bool { return p.SID() == sid })
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *memPartnerRepository) List(_ context.Context, f partner.ListFilter) ([]*partner.Partner, int64, error) {
	out := lo.Filter(r.partners, func(p *partner.Partner, _ int) bool {
		if f.Category != "" && p.Category() != f.Category {
			return false
		}
		return f.Active == nil || p.IsActive() == *f.Active
	})
	return out, int64(len(out)), nil
}

func appErrorType(t *testing.T, err error) apperrors.ErrorType {
	t.Helper()
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	return appErr.Type
}

func TestPartnerLifecycle(t *testing.T) {
	repo := &memPartnerRepository{}
	log := logger.NewNopLogger()
	ctx := context.Background()

	created, err := NewCreatePartnerUseCase(repo, log).Execute(ctx, PartnerInput{
		Name:            "Farmácia Central",
		CNPJ:            "11.444.777/0001-61",
		Category:        "Saúde",
		DiscountPercent: "12.5",
		City:            "Campinas",
	})
	require.NoError(t, err)
	assert.Equal(t, "12.50", created.DiscountPercent)
	assert.Equal(t, "saúde", created.Category)
	assert.Equal(t, "11444777000161", created.CNPJ)
	assert.True(t, created.Active)

	got, err := NewGetPartnerUseCase(repo, log).Execute(ctx, created.SID)
	require.NoError(t, err)
	assert.Equal(t, "Farmácia Central", got.Name)

	updated, err := NewUpdatePartnerUseCase(repo, log).Execute(ctx, UpdatePartnerCommand{
		SID:    created.SID,
		Input:  PartnerInput{Name: "Farmácia Central", Category: "saúde", DiscountPercent: "20"},
		Active: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", updated.DiscountPercent)
	assert.False(t, updated.Active)

	active := true
	list, err := NewListPartnersUseCase(repo, log).Execute(ctx, ListPartnersQuery{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, list.Partners)

	require.NoError(t, NewDeletePartnerUseCase(repo, log).Execute(ctx, created.SID))
	_, err = NewGetPartnerUseCase(repo, log).Execute(ctx, created.SID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErrorType(t, err))
}

func TestCreatePartner_Validation(t *testing.T) {
	uc := NewCreatePartnerUseCase(&memPartnerRepository{}, logger.NewNopLogger())

	for name, in := range map[string]PartnerInput{
		"missing name":          {DiscountPercent: "10"},
		"discount too high":     {Name: "Academia", DiscountPercent: "120"},
		"discount not a number": {Name: "Academia", DiscountPercent: "dez"},
		"invalid cnpj":          {Name: "Academia", CNPJ: "123"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), in)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErrorType(t, err))
		})
	}
}

func TestUpdatePartner_NotFound(t *testing.T) {
	uc := NewUpdatePartnerUseCase(&memPartnerRepository{}, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), UpdatePartnerCommand{SID: "ptn_missing", Input: PartnerInput{Name: "X"}})
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErrorType(t, err))
}
