package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

type PartnerModel struct {
	ID                 uint            `gorm:"primarykey"`
	SID                string          `gorm:"uniqueIndex;not null;size:50"`
	Name               string          `gorm:"not null;size:200"`
	CNPJ               string          `gorm:"column:cnpj;size:14"`
	Category           string          `gorm:"size:50;index:idx_partner_category"`
	BenefitDescription string          `gorm:"type:text"`
	DiscountPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	City               string          `gorm:"size:100;index:idx_partner_city"`
	Active             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (PartnerModel) TableName() string {
	return constants.TablePartners
}
