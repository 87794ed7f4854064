package mappers

import (
	"gorm.io/datatypes"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func WebhookEventToModel(e *webhook.Event) *models.WebhookEventModel {
	return &models.WebhookEventModel{
		ID:            e.ID(),
		SID:           e.SID(),
		Provider:      e.Provider().String(),
		EventID:       e.EventID(),
		EventType:     e.EventType(),
		Payload:       datatypes.JSON(e.Payload()),
		Status:        e.Status().String(),
		Outcome:       e.Outcome(),
		SubscriberID:  e.SubscriberID(),
		Attempts:      e.Attempts(),
		LastError:     e.LastError(),
		NextAttemptAt: e.NextAttemptAt(),
		AlertedAt:     e.AlertedAt(),
		OccurredAt:    e.OccurredAt(),
		ReceivedAt:    e.ReceivedAt(),
		ProcessedAt:   e.ProcessedAt(),
		UpdatedAt:     e.UpdatedAt(),
	}
}

func WebhookEventToDomain(model *models.WebhookEventModel) (*webhook.Event, error) {
	if model == nil {
		return nil, nil
	}
	return webhook.ReconstructEventWithParams(webhook.ReconstructParams{
		ID:            model.ID,
		SID:           model.SID,
		Provider:      shared.Provider(model.Provider),
		EventID:       model.EventID,
		EventType:     model.EventType,
		Payload:       []byte(model.Payload),
		Status:        vo.EventStatus(model.Status),
		Outcome:       model.Outcome,
		SubscriberID:  model.SubscriberID,
		Attempts:      model.Attempts,
		LastError:     model.LastError,
		NextAttemptAt: model.NextAttemptAt,
		AlertedAt:     model.AlertedAt,
		OccurredAt:    model.OccurredAt,
		ReceivedAt:    model.ReceivedAt,
		ProcessedAt:   model.ProcessedAt,
		UpdatedAt:     model.UpdatedAt,
	})
}

func WebhookEventsToDomain(list []*models.WebhookEventModel) ([]*webhook.Event, error) {
	result := make([]*webhook.Event, 0, len(list))
	for _, model := range list {
		e, err := WebhookEventToDomain(model)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}
