package subscriber

import (
	"context"
	"time"

	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
)

// Repository lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, s *Subscriber) error
	// Update fails with ErrVersionConflict when the row changed since it was loaded.
	Update(ctx context.Context, s *Subscriber) error
	GetByID(ctx context.Context, id uint) (*Subscriber, error)
	GetBySID(ctx context.Context, sid string) (*Subscriber, error)
	GetByDocument(ctx context.Context, document string) (*Subscriber, error)
	GetByGatewayCustomerID(ctx context.Context, customerID string) (*Subscriber, error)
	GetByGatewaySubscriptionID(ctx context.Context, subscriptionID string) (*Subscriber, error)
	List(ctx context.Context, filter ListFilter) ([]*Subscriber, int64, error)
	CountByCompany(ctx context.Context, companyID uint) (int64, error)

	// FindExpirable returns ativo subscribers whose coverage ended before cutoff.
	FindExpirable(ctx context.Context, cutoff time.Time, limit int) ([]*Subscriber, error)
	// FindInactivatable returns vencido subscribers whose coverage ended before cutoff.
	FindInactivatable(ctx context.Context, cutoff time.Time, limit int) ([]*Subscriber, error)
}

type ListFilter struct {
	Status    *vo.SubscriberStatus
	Kind      *vo.Kind
	CompanyID *uint
	Search    string
	Page      int
	PageSize  int
}
