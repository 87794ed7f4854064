package mappers

import (
	"github.com/beneficlub/backoffice/internal/domain/payment"
	vo "github.com/beneficlub/backoffice/internal/domain/payment/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               p.ID(),
		SID:              p.SID(),
		Provider:         p.Provider().String(),
		GatewayPaymentID: p.GatewayPaymentID(),
		SubscriberID:     p.SubscriberID(),
		AmountCents:      p.Amount().AmountInCents(),
		Currency:         p.Amount().Currency(),
		Status:           p.Status().String(),
		DueDate:          p.DueDate(),
		PaidAt:           p.PaidAt(),
		LastEventType:    p.LastEventType(),
		LastEventAt:      p.LastEventAt(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func PaymentToDomain(model *models.PaymentModel) *payment.Payment {
	if model == nil {
		return nil
	}
	return payment.ReconstructPaymentWithParams(payment.ReconstructParams{
		ID:               model.ID,
		SID:              model.SID,
		Provider:         shared.Provider(model.Provider),
		GatewayPaymentID: model.GatewayPaymentID,
		SubscriberID:     model.SubscriberID,
		Amount:           shared.NewMoney(model.AmountCents, model.Currency),
		Status:           vo.PaymentStatus(model.Status),
		DueDate:          model.DueDate,
		PaidAt:           model.PaidAt,
		LastEventType:    model.LastEventType,
		LastEventAt:      model.LastEventAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	})
}
