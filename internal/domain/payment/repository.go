package payment

import (
	"context"

	"github.com/beneficlub/backoffice/internal/domain/shared"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
	// GetByGatewayID returns (nil, nil) when the charge is unknown.
	GetByGatewayID(ctx context.Context, provider shared.Provider, gatewayPaymentID string) (*Payment, error)
	ListBySubscriber(ctx context.Context, subscriberID uint, limit int) ([]*Payment, error)
}
