package models

import (
	"time"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

type CompanyModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"uniqueIndex;not null;size:50"`
	Name         string `gorm:"not null;size:200"`
	CNPJ         string `gorm:"column:cnpj;uniqueIndex;not null;size:14"`
	ContactEmail string `gorm:"size:255"`
	ContactPhone string `gorm:"size:20"`
	SeatLimit    int    `gorm:"not null;default:0;comment:0 means unlimited"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CompanyModel) TableName() string {
	return constants.TableCompanies
}
