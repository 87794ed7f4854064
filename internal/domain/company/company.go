package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyInactive = errors.New("company is inactive")
	ErrInvalidCNPJ     = errors.New("invalid CNPJ")
	ErrCNPJExists      = errors.New("company CNPJ already registered")
	ErrSeatLimit       = errors.New("company seat limit reached")
)

// Company is a corporate client that buys seats for its employees.
// A zero seat limit means unlimited.
type Company struct {
	id           uint
	sid          string
	name         string
	cnpj         string
	contactEmail string
	contactPhone string
	seatLimit    int
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewCompany(name, cnpj, contactEmail, contactPhone string, seatLimit int) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("company name is required")
	}
	if !shared.IsValidCNPJ(cnpj) {
		return nil, ErrInvalidCNPJ
	}
	if seatLimit < 0 {
		return nil, fmt.Errorf("seat limit cannot be negative")
	}

	now := biztime.NowUTC()
	return &Company{
		sid:          id.NewCompanyID(),
		name:         name,
		cnpj:         shared.OnlyDigits(cnpj),
		contactEmail: strings.ToLower(strings.TrimSpace(contactEmail)),
		contactPhone: shared.NormalizePhoneBR(contactPhone),
		seatLimit:    seatLimit,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructCompany(
	id uint, sid, name, cnpj, contactEmail, contactPhone string,
	seatLimit int, active bool, createdAt, updatedAt time.Time,
) *Company {
	return &Company{
		id:           id,
		sid:          sid,
		name:         name,
		cnpj:         cnpj,
		contactEmail: contactEmail,
		contactPhone: contactPhone,
		seatLimit:    seatLimit,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *Company) ID() uint             { return c.id }
func (c *Company) SID() string          { return c.sid }
func (c *Company) Name() string         { return c.name }
func (c *Company) CNPJ() string         { return c.cnpj }
func (c *Company) ContactEmail() string { return c.contactEmail }
func (c *Company) ContactPhone() string { return c.contactPhone }
func (c *Company) SeatLimit() int       { return c.seatLimit }
func (c *Company) IsActive() bool       { return c.active }
func (c *Company) CreatedAt() time.Time { return c.createdAt }
func (c *Company) UpdatedAt() time.Time { return c.updatedAt }

func (c *Company) SetID(newID uint) {
	c.id = newID
}

// CanAddSeat checks whether one more corporate subscriber fits.
func (c *Company) CanAddSeat(used int64) error {
	if !c.active {
		return ErrCompanyInactive
	}
	if c.seatLimit > 0 && used >= int64(c.seatLimit) {
		return fmt.Errorf("%w: %d of %d", ErrSeatLimit, used, c.seatLimit)
	}
	return nil
}

func (c *Company) Deactivate() {
	c.active = false
	c.updatedAt = biztime.NowUTC()
}

type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id uint) (*Company, error)
	GetBySID(ctx context.Context, sid string) (*Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*Company, error)
	List(ctx context.Context, search string, page, pageSize int) ([]*Company, int64, error)
}
