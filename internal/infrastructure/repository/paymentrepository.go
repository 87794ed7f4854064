package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPaymentRepository(db *gorm.DB, logger logger.Interface) payment.Repository {
	return &PaymentRepositoryImpl{db: db, logger: logger}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment", "gateway_payment_id", model.GatewayPaymentID, "error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"subscriber_id":   model.SubscriberID,
			"amount_cents":    model.AmountCents,
			"currency":        model.Currency,
			"status":          model.Status,
			"due_date":        model.DueDate,
			"paid_at":         model.PaidAt,
			"last_event_type": model.LastEventType,
			"last_event_at":   model.LastEventAt,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update payment", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	return nil
}

func (r *PaymentRepositoryImpl) GetByGatewayID(ctx context.Context, provider shared.Provider, gatewayPaymentID string) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND gateway_payment_id = ?", provider.String(), gatewayPaymentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return mappers.PaymentToDomain(&model), nil
}

func (r *PaymentRepositoryImpl) ListBySubscriber(ctx context.Context, subscriberID uint, limit int) ([]*payment.Payment, error) {
	var list []*models.PaymentModel
	query := db.GetTxFromContext(ctx, r.db).
		Where("subscriber_id = ?", subscriberID).
		Order("last_event_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	result := make([]*payment.Payment, 0, len(list))
	for _, m := range list {
		result = append(result, mappers.PaymentToDomain(m))
	}
	return result, nil
}
