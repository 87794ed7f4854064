package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/db"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type WebhookEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewWebhookEventRepository(db *gorm.DB, logger logger.Interface) webhook.Repository {
	return &WebhookEventRepositoryImpl{db: db, logger: logger}
}

// Create relies on the (provider, event_id) unique key for deduplication.
func (r *WebhookEventRepositoryImpl) Create(ctx context.Context, e *webhook.Event) error {
	model := mappers.WebhookEventToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return webhook.ErrDuplicateEvent
		}
		r.logger.Errorw("failed to record webhook event",
			"provider", model.Provider,
			"event_id", model.EventID,
			"error", err,
		)
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *WebhookEventRepositoryImpl) Update(ctx context.Context, e *webhook.Event) error {
	model := mappers.WebhookEventToModel(e)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.WebhookEventModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":          model.Status,
			"outcome":         model.Outcome,
			"subscriber_id":   model.SubscriberID,
			"attempts":        model.Attempts,
			"last_error":      model.LastError,
			"next_attempt_at": model.NextAttemptAt,
			"alerted_at":      model.AlertedAt,
			"processed_at":    model.ProcessedAt,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update webhook event", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update webhook event: %w", result.Error)
	}
	return nil
}

func (r *WebhookEventRepositoryImpl) GetBySID(ctx context.Context, sid string) (*webhook.Event, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid))
}

func (r *WebhookEventRepositoryImpl) GetByEventID(ctx context.Context, provider shared.Provider, eventID string) (*webhook.Event, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND event_id = ?", provider.String(), eventID))
}

func (r *WebhookEventRepositoryImpl) first(_ context.Context, query *gorm.DB) (*webhook.Event, error) {
	var model models.WebhookEventModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}
	return mappers.WebhookEventToDomain(&model)
}

func (r *WebhookEventRepositoryImpl) List(ctx context.Context, filter webhook.ListFilter) ([]*webhook.Event, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.WebhookEventModel{})
	if filter.Provider != nil {
		query = query.Where("provider = ?", filter.Provider.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.SubscriberID != nil {
		query = query.Where("subscriber_id = ?", *filter.SubscriberID)
	}
	if filter.From != nil {
		query = query.Where("received_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("received_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count webhook events: %w", err)
	}

	var list []*models.WebhookEventModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Order("received_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list webhook events", "error", err)
		return nil, 0, fmt.Errorf("failed to list webhook events: %w", err)
	}

	result, err := mappers.WebhookEventsToDomain(list)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *WebhookEventRepositoryImpl) ListRetryable(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*webhook.Event, error) {
	var list []*models.WebhookEventModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.EventStatusFailed.String()).
		Where("next_attempt_at IS NOT NULL AND next_attempt_at <= ?", now).
		Where("attempts < ?", maxAttempts).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list retryable webhook events: %w", err)
	}
	return mappers.WebhookEventsToDomain(list)
}

func (r *WebhookEventRepositoryImpl) ListExhaustedUnalerted(ctx context.Context, maxAttempts, limit int) ([]*webhook.Event, error) {
	var list []*models.WebhookEventModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.EventStatusFailed.String()).
		Where("alerted_at IS NULL").
		Where("(next_attempt_at IS NULL OR attempts >= ?)", maxAttempts).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list exhausted webhook events: %w", err)
	}
	return mappers.WebhookEventsToDomain(list)
}
