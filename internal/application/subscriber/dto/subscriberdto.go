package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
)

type SubscriberDTO struct {
	SID                   string        `json:"sid"`
	Kind                  string        `json:"kind"`
	CompanySID            string        `json:"company_sid,omitempty"`
	Name                  string        `json:"name"`
	Document              string        `json:"document"`
	Email                 string        `json:"email,omitempty"`
	Phone                 string        `json:"phone,omitempty"`
	PlanName              string        `json:"plan_name,omitempty"`
	AmountCents           int64         `json:"amount_cents"`
	Currency              string        `json:"currency"`
	BillingCycle          string        `json:"billing_cycle"`
	Status                string        `json:"status"`
	HasAccess             bool          `json:"has_access"`
	ExpiredAt             *time.Time    `json:"expired_at,omitempty"`
	NextDueDate           *time.Time    `json:"next_due_date,omitempty"`
	Gateway               string        `json:"gateway,omitempty"`
	GatewayCustomerID     string        `json:"gateway_customer_id,omitempty"`
	GatewaySubscriptionID string        `json:"gateway_subscription_id,omitempty"`
	LastConfirmedAt       *time.Time    `json:"last_confirmed_at,omitempty"`
	CancelledAt           *time.Time    `json:"cancelled_at,omitempty"`
	CancelReason          string        `json:"cancel_reason,omitempty"`
	ActivatedAt           *time.Time    `json:"activated_at,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
	Payments              []*PaymentDTO `json:"payments,omitempty"`
}

type PaymentDTO struct {
	SID              string     `json:"sid"`
	Provider         string     `json:"provider"`
	GatewayPaymentID string     `json:"gateway_payment_id"`
	AmountCents      int64      `json:"amount_cents"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	LastEventType    string     `json:"last_event_type"`
	LastEventAt      time.Time  `json:"last_event_at"`
}

type ListSubscribersResponse struct {
	Subscribers []*SubscriberDTO `json:"subscribers"`
	Total       int64            `json:"total"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
}

// ToSubscriberDTO converts a subscriber. companySID is resolved by the caller.
func ToSubscriberDTO(s *subscriber.Subscriber, companySID string) *SubscriberDTO {
	if s == nil {
		return nil
	}
	return &SubscriberDTO{
		SID:                   s.SID(),
		Kind:                  s.Kind().String(),
		CompanySID:            companySID,
		Name:                  s.Name(),
		Document:              s.Document(),
		Email:                 s.Email(),
		Phone:                 s.Phone(),
		PlanName:              s.PlanName(),
		AmountCents:           s.Amount().AmountInCents(),
		Currency:              s.Amount().Currency(),
		BillingCycle:          s.BillingCycle().String(),
		Status:                s.Status().String(),
		HasAccess:             s.Status().HasAccess(),
		ExpiredAt:             s.ExpiredAt(),
		NextDueDate:           s.NextDueDate(),
		Gateway:               s.Gateway().String(),
		GatewayCustomerID:     s.GatewayCustomerID(),
		GatewaySubscriptionID: s.GatewaySubscriptionID(),
		LastConfirmedAt:       s.LastConfirmedAt(),
		CancelledAt:           s.CancelledAt(),
		CancelReason:          s.CancelReason(),
		ActivatedAt:           s.ActivatedAt(),
		CreatedAt:             s.CreatedAt(),
		UpdatedAt:             s.UpdatedAt(),
	}
}

func ToPaymentDTO(p *payment.Payment) *PaymentDTO {
	return &PaymentDTO{
		SID:              p.SID(),
		Provider:         p.Provider().String(),
		GatewayPaymentID: p.GatewayPaymentID(),
		AmountCents:      p.Amount().AmountInCents(),
		Currency:         p.Amount().Currency(),
		Status:           p.Status().String(),
		DueDate:          p.DueDate(),
		PaidAt:           p.PaidAt(),
		LastEventType:    p.LastEventType(),
		LastEventAt:      p.LastEventAt(),
	}
}

func ToPaymentDTOList(payments []*payment.Payment) []*PaymentDTO {
	return lo.Map(payments, func(p *payment.Payment, _ int) *PaymentDTO {
		return ToPaymentDTO(p)
	})
}
