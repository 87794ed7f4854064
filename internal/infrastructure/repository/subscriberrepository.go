package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/db"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type SubscriberRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriberRepository(db *gorm.DB, logger logger.Interface) subscriber.Repository {
	return &SubscriberRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *SubscriberRepositoryImpl) Create(ctx context.Context, s *subscriber.Subscriber) error {
	model := mappers.SubscriberToModel(s)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return subscriber.ErrDocumentExists
		}
		r.logger.Errorw("failed to create subscriber", "sid", model.SID, "error", err)
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	if err := s.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscriber ID: %w", err)
	}
	s.SetVersion(model.Version)
	return nil
}

// Update writes the aggregate guarded by its version.
func (r *SubscriberRepositoryImpl) Update(ctx context.Context, s *subscriber.Subscriber) error {
	model := mappers.SubscriberToModel(s)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriberModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			"name":                    model.Name,
			"email":                   model.Email,
			"phone":                   model.Phone,
			"plan_name":               model.PlanName,
			"amount_cents":            model.AmountCents,
			"currency":                model.Currency,
			"billing_cycle":           model.BillingCycle,
			"status":                  model.Status,
			"expired_at":              model.ExpiredAt,
			"next_due_date":           model.NextDueDate,
			"gateway":                 model.Gateway,
			"gateway_customer_id":     model.GatewayCustomerID,
			"gateway_subscription_id": model.GatewaySubscriptionID,
			"last_confirmed_at":       model.LastConfirmedAt,
			"cancelled_at":            model.CancelledAt,
			"cancel_reason":           model.CancelReason,
			"activated_at":            model.ActivatedAt,
			"version":                 model.Version + 1,
			"updated_at":              model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subscriber", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscriber: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscriber.ErrVersionConflict
	}

	s.SetVersion(model.Version + 1)
	return nil
}

func (r *SubscriberRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscriber.Subscriber, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *SubscriberRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscriber.Subscriber, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *SubscriberRepositoryImpl) GetByDocument(ctx context.Context, document string) (*subscriber.Subscriber, error) {
	return r.first(ctx, "document = ?", document)
}

func (r *SubscriberRepositoryImpl) GetByGatewayCustomerID(ctx context.Context, customerID string) (*subscriber.Subscriber, error) {
	if customerID == "" {
		return nil, nil
	}
	return r.first(ctx, "gateway_customer_id = ?", customerID)
}

func (r *SubscriberRepositoryImpl) GetByGatewaySubscriptionID(ctx context.Context, subscriptionID string) (*subscriber.Subscriber, error) {
	if subscriptionID == "" {
		return nil, nil
	}
	return r.first(ctx, "gateway_subscription_id = ?", subscriptionID)
}

func (r *SubscriberRepositoryImpl) first(ctx context.Context, query string, arg any) (*subscriber.Subscriber, error) {
	var model models.SubscriberModel

	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).Order("id ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscriber", "query", query, "error", err)
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	return mappers.SubscriberToDomain(&model)
}

func (r *SubscriberRepositoryImpl) List(ctx context.Context, filter subscriber.ListFilter) ([]*subscriber.Subscriber, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriberModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	query = query.Scopes(db.Search(filter.Search, "name", "email", "document"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscribers", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	var list []*models.SubscriberModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list subscribers", "error", err)
		return nil, 0, fmt.Errorf("failed to list subscribers: %w", err)
	}

	result, err := mappers.SubscribersToDomain(list)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *SubscriberRepositoryImpl) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriberModel{}).
		Where("company_id = ? AND status <> ?", companyID, vo.StatusInativo.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count company seats: %w", err)
	}
	return count, nil
}

func (r *SubscriberRepositoryImpl) FindExpirable(ctx context.Context, cutoff time.Time, limit int) ([]*subscriber.Subscriber, error) {
	return r.findOverdue(ctx, vo.StatusAtivo, cutoff, limit)
}

func (r *SubscriberRepositoryImpl) FindInactivatable(ctx context.Context, cutoff time.Time, limit int) ([]*subscriber.Subscriber, error) {
	return r.findOverdue(ctx, vo.StatusVencido, cutoff, limit)
}

// findOverdue matches on expired_at, falling back to next_due_date for
// subscribers that never had a confirmed payment.
func (r *SubscriberRepositoryImpl) findOverdue(ctx context.Context, status vo.SubscriberStatus, cutoff time.Time, limit int) ([]*subscriber.Subscriber, error) {
	var list []*models.SubscriberModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", status.String()).
		Where("(expired_at < ? OR (expired_at IS NULL AND next_due_date < ?))", cutoff, cutoff).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to find overdue subscribers", "status", status, "error", err)
		return nil, fmt.Errorf("failed to find overdue subscribers: %w", err)
	}

	return mappers.SubscribersToDomain(list)
}
