package mappers

import (
	"fmt"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func SubscriberToModel(s *subscriber.Subscriber) *models.SubscriberModel {
	return &models.SubscriberModel{
		ID:                    s.ID(),
		SID:                   s.SID(),
		Kind:                  s.Kind().String(),
		CompanyID:             s.CompanyID(),
		Name:                  s.Name(),
		Document:              s.Document(),
		Email:                 s.Email(),
		Phone:                 s.Phone(),
		PlanName:              s.PlanName(),
		AmountCents:           s.Amount().AmountInCents(),
		Currency:              s.Amount().Currency(),
		BillingCycle:          s.BillingCycle().String(),
		Status:                s.Status().String(),
		ExpiredAt:             s.ExpiredAt(),
		NextDueDate:           s.NextDueDate(),
		Gateway:               s.Gateway().String(),
		GatewayCustomerID:     s.GatewayCustomerID(),
		GatewaySubscriptionID: s.GatewaySubscriptionID(),
		LastConfirmedAt:       s.LastConfirmedAt(),
		CancelledAt:           s.CancelledAt(),
		CancelReason:          s.CancelReason(),
		ActivatedAt:           s.ActivatedAt(),
		Version:               s.Version(),
		CreatedAt:             s.CreatedAt(),
		UpdatedAt:             s.UpdatedAt(),
	}
}

func SubscriberToDomain(model *models.SubscriberModel) (*subscriber.Subscriber, error) {
	if model == nil {
		return nil, nil
	}

	s, err := subscriber.ReconstructSubscriberWithParams(subscriber.ReconstructParams{
		ID:                    model.ID,
		SID:                   model.SID,
		Kind:                  vo.Kind(model.Kind),
		CompanyID:             model.CompanyID,
		Name:                  model.Name,
		Document:              model.Document,
		Email:                 model.Email,
		Phone:                 model.Phone,
		PlanName:              model.PlanName,
		Amount:                shared.NewMoney(model.AmountCents, model.Currency),
		BillingCycle:          vo.BillingCycle(model.BillingCycle),
		Status:                vo.SubscriberStatus(model.Status),
		ExpiredAt:             model.ExpiredAt,
		NextDueDate:           model.NextDueDate,
		Gateway:               shared.Provider(model.Gateway),
		GatewayCustomerID:     model.GatewayCustomerID,
		GatewaySubscriptionID: model.GatewaySubscriptionID,
		LastConfirmedAt:       model.LastConfirmedAt,
		CancelledAt:           model.CancelledAt,
		CancelReason:          model.CancelReason,
		ActivatedAt:           model.ActivatedAt,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscriber %s: %w", model.SID, err)
	}
	return s, nil
}

func SubscribersToDomain(list []*models.SubscriberModel) ([]*subscriber.Subscriber, error) {
	result := make([]*subscriber.Subscriber, 0, len(list))
	for _, model := range list {
		s, err := SubscriberToDomain(model)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}
