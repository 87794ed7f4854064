package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

type SubscriberModel struct {
	ID                    uint       `gorm:"primarykey"`
	SID                   string     `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	Kind                  string     `gorm:"not null;size:20"`
	CompanyID             *uint      `gorm:"index:idx_subscriber_company"`
	Name                  string     `gorm:"not null;size:200"`
	Document              string     `gorm:"uniqueIndex;not null;size:14;comment:CPF or CNPJ digits"`
	Email                 string     `gorm:"size:255;index:idx_subscriber_email"`
	Phone                 string     `gorm:"size:20"`
	PlanName              string     `gorm:"size:100"`
	AmountCents           int64      `gorm:"not null;default:0"`
	Currency              string     `gorm:"not null;size:3;default:BRL"`
	BillingCycle          string     `gorm:"not null;size:20"`
	Status                string     `gorm:"not null;size:20;index:idx_subscriber_status_expiry,priority:1"`
	ExpiredAt             *time.Time `gorm:"index:idx_subscriber_status_expiry,priority:2"`
	NextDueDate           *time.Time
	Gateway               string `gorm:"size:20"`
	GatewayCustomerID     string `gorm:"size:100;index:idx_subscriber_gateway_customer"`
	GatewaySubscriptionID string `gorm:"size:100;index:idx_subscriber_gateway_subscription"`
	LastConfirmedAt       *time.Time
	CancelledAt           *time.Time
	CancelReason          string `gorm:"size:200"`
	ActivatedAt           *time.Time
	Version               int `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (SubscriberModel) TableName() string {
	return constants.TableSubscribers
}

func (s *SubscriberModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
