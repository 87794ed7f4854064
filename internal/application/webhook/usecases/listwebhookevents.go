package usecases

import (
	"context"
	"time"

	"github.com/beneficlub/backoffice/internal/application/webhook/dto"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

type ListWebhookEventsQuery struct {
	Provider      string
	Status        string
	EventType     string
	SubscriberSID string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

type ListWebhookEventsUseCase struct {
	webhookRepo    webhook.Repository
	subscriberRepo subscriber.Repository
	logger         logger.Interface
}

func NewListWebhookEventsUseCase(
	webhookRepo webhook.Repository,
	subscriberRepo subscriber.Repository,
	logger logger.Interface,
) *ListWebhookEventsUseCase {
	return &ListWebhookEventsUseCase{
		webhookRepo:    webhookRepo,
		subscriberRepo: subscriberRepo,
		logger:         logger,
	}
}

func (uc *ListWebhookEventsUseCase) Execute(ctx context.Context, query ListWebhookEventsQuery) (*dto.ListWebhookEventsResponse, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := webhook.ListFilter{
		EventType: query.EventType,
		From:      query.From,
		To:        query.To,
		Page:      p.Page,
		PageSize:  p.PageSize,
	}

	if query.Provider != "" {
		provider := shared.Provider(query.Provider)
		if !provider.IsValid() {
			return nil, apperrors.NewValidationError("invalid provider", query.Provider)
		}
		filter.Provider = &provider
	}
	if query.Status != "" {
		status := vo.EventStatus(query.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("invalid webhook status", query.Status)
		}
		filter.Status = &status
	}
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, apperrors.NewValidationError("'to' must not be before 'from'")
	}
	if query.SubscriberSID != "" {
		sub, err := uc.subscriberRepo.GetBySID(ctx, query.SubscriberSID)
		if err != nil {
			uc.logger.Errorw("failed to resolve subscriber for webhook listing", "sid", query.SubscriberSID, "error", err)
			return nil, apperrors.NewInternalError("failed to list webhook events")
		}
		if sub == nil {
			return nil, apperrors.NewNotFoundError("subscriber not found", query.SubscriberSID)
		}
		id := sub.ID()
		filter.SubscriberID = &id
	}

	events, total, err := uc.webhookRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list webhook events", "error", err)
		return nil, apperrors.NewInternalError("failed to list webhook events")
	}

	return &dto.ListWebhookEventsResponse{
		Events:   dto.ToWebhookEventDTOList(events),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

type GetWebhookEventQuery struct {
	SID string
}

// GetWebhookEventUseCase returns one event including its raw payload.
type GetWebhookEventUseCase struct {
	webhookRepo webhook.Repository
	logger      logger.Interface
}

func NewGetWebhookEventUseCase(webhookRepo webhook.Repository, logger logger.Interface) *GetWebhookEventUseCase {
	return &GetWebhookEventUseCase{webhookRepo: webhookRepo, logger: logger}
}

func (uc *GetWebhookEventUseCase) Execute(ctx context.Context, query GetWebhookEventQuery) (*dto.WebhookEventDTO, error) {
	ev, err := uc.webhookRepo.GetBySID(ctx, query.SID)
	if err != nil {
		uc.logger.Errorw("failed to load webhook event", "sid", query.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to load webhook event")
	}
	if ev == nil {
		return nil, apperrors.NewNotFoundError("webhook event not found", query.SID)
	}
	return dto.ToWebhookEventDTO(ev, true), nil
}
