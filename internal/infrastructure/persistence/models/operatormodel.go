package models

import (
	"time"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

type OperatorModel struct {
	ID                  uint   `gorm:"primarykey"`
	SID                 string `gorm:"uniqueIndex;not null;size:50"`
	Email               string `gorm:"uniqueIndex;not null;size:255"`
	Name                string `gorm:"size:100"`
	PasswordHash        string `gorm:"not null;size:255"`
	Active              bool   `gorm:"not null;default:true"`
	FailedLoginAttempts int    `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (OperatorModel) TableName() string {
	return constants.TableOperators
}
