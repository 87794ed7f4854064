package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvalidCNPJ     = errors.New("invalid CNPJ")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100 percent")
)

var hundred = decimal.NewFromInt(100)

// Partner is a merchant offering a benefit to club members.
type Partner struct {
	id                 uint
	sid                string
	name               string
	cnpj               string
	category           string
	benefitDescription string
	discountPercent    decimal.Decimal
	city               string
	active             bool
	createdAt          time.Time
	updatedAt          time.Time
}

type Details struct {
	Name               string
	CNPJ               string
	Category           string
	BenefitDescription string
	DiscountPercent    decimal.Decimal
	City               string
}

func (d Details) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("partner name is required")
	}
	if d.CNPJ != "" && !shared.IsValidCNPJ(d.CNPJ) {
		return ErrInvalidCNPJ
	}
	if d.DiscountPercent.IsNegative() || d.DiscountPercent.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}

func NewPartner(d Details) (*Partner, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	now := biztime.NowUTC()
	p := &Partner{
		sid:       id.NewPartnerID(),
		active:    true,
		createdAt: now,
	}
	p.apply(d, now)
	return p, nil
}

func ReconstructPartner(
	id uint, sid string, d Details, active bool, createdAt, updatedAt time.Time,
) *Partner {
	return &Partner{
		id:                 id,
		sid:                sid,
		name:               d.Name,
		cnpj:               d.CNPJ,
		category:           d.Category,
		benefitDescription: d.BenefitDescription,
		discountPercent:    d.DiscountPercent,
		city:               d.City,
		active:             active,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (p *Partner) ID() uint                         { return p.id }
func (p *Partner) SID() string                      { return p.sid }
func (p *Partner) Name() string                     { return p.name }
func (p *Partner) CNPJ() string                     { return p.cnpj }
func (p *Partner) Category() string                 { return p.category }
func (p *Partner) BenefitDescription() string       { return p.benefitDescription }
func (p *Partner) DiscountPercent() decimal.Decimal { return p.discountPercent }
func (p *Partner) City() string                     { return p.city }
func (p *Partner) IsActive() bool                   { return p.active }
func (p *Partner) CreatedAt() time.Time             { return p.createdAt }
func (p *Partner) UpdatedAt() time.Time             { return p.updatedAt }

func (p *Partner) SetID(newID uint) {
	p.id = newID
}

// Update replaces every editable field.
func (p *Partner) Update(d Details, active bool) error {
	if err := d.validate(); err != nil {
		return err
	}
	p.active = active
	p.apply(d, biztime.NowUTC())
	return nil
}

func (p *Partner) apply(d Details, now time.Time) {
	p.name = strings.TrimSpace(d.Name)
	p.cnpj = shared.OnlyDigits(d.CNPJ)
	p.category = strings.ToLower(strings.TrimSpace(d.Category))
	p.benefitDescription = strings.TrimSpace(d.BenefitDescription)
	p.discountPercent = d.DiscountPercent.Round(2)
	p.city = strings.TrimSpace(d.City)
	p.updatedAt = now
}

type ListFilter struct {
	Category string
	City     string
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, p *Partner) error
	Update(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, id uint) error
	GetBySID(ctx context.Context, sid string) (*Partner, error)
	List(ctx context.Context, filter ListFilter) ([]*Partner, int64, error)
}
