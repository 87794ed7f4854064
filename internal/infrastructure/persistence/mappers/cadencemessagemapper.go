package mappers

import (
	"time"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func CadenceMessageToModel(m *cadence.Message) *models.CadenceMessageModel {
	return &models.CadenceMessageModel{
		ID:                m.ID(),
		SID:               m.SID(),
		RunID:             m.RunID(),
		StepIndex:         m.StepIndex(),
		SubscriberID:      m.SubscriberID(),
		Cadence:           m.Cadence().String(),
		DelaySeconds:      int64(m.Delay() / time.Second),
		Phone:             m.Phone(),
		Body:              m.Body(),
		Status:            m.Status().String(),
		SendAt:            m.SendAt(),
		Attempts:          m.Attempts(),
		LastError:         m.LastError(),
		ProviderMessageID: m.ProviderMessageID(),
		CompletedAt:       m.CompletedAt(),
		CreatedAt:         m.CreatedAt(),
		UpdatedAt:         m.UpdatedAt(),
	}
}

func CadenceMessageToDomain(model *models.CadenceMessageModel) *cadence.Message {
	if model == nil {
		return nil
	}
	return cadence.ReconstructMessageWithParams(cadence.ReconstructParams{
		ID:                model.ID,
		SID:               model.SID,
		RunID:             model.RunID,
		SubscriberID:      model.SubscriberID,
		Cadence:           vo.CadenceName(model.Cadence),
		StepIndex:         model.StepIndex,
		Delay:             time.Duration(model.DelaySeconds) * time.Second,
		Phone:             model.Phone,
		Body:              model.Body,
		Status:            vo.MessageStatus(model.Status),
		SendAt:            model.SendAt,
		Attempts:          model.Attempts,
		LastError:         model.LastError,
		ProviderMessageID: model.ProviderMessageID,
		CompletedAt:       model.CompletedAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

func CadenceMessagesToDomain(list []*models.CadenceMessageModel) []*cadence.Message {
	result := make([]*cadence.Message, 0, len(list))
	for _, model := range list {
		result = append(result, CadenceMessageToDomain(model))
	}
	return result
}
