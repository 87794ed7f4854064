package models

import (
	"time"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

type PaymentModel struct {
	ID               uint   `gorm:"primarykey"`
	SID              string `gorm:"uniqueIndex;not null;size:50"`
	Provider         string `gorm:"not null;size:20;uniqueIndex:uk_payment_gateway,priority:1"`
	GatewayPaymentID string `gorm:"not null;size:100;uniqueIndex:uk_payment_gateway,priority:2"`
	SubscriberID     uint   `gorm:"not null;index:idx_payment_subscriber"`
	AmountCents      int64  `gorm:"not null;default:0"`
	Currency         string `gorm:"not null;size:3;default:BRL"`
	Status           string `gorm:"not null;size:20"`
	DueDate          *time.Time
	PaidAt           *time.Time
	LastEventType    string `gorm:"size:100"`
	LastEventAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}
