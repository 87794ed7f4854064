package models

import (
	"time"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

type CadenceMessageModel struct {
	ID                uint      `gorm:"primarykey"`
	SID               string    `gorm:"uniqueIndex;not null;size:50"`
	RunID             string    `gorm:"not null;size:50;uniqueIndex:uk_cadence_run_step,priority:1"`
	StepIndex         int       `gorm:"not null;uniqueIndex:uk_cadence_run_step,priority:2"`
	SubscriberID      uint      `gorm:"not null;index:idx_cadence_subscriber"`
	Cadence           string    `gorm:"not null;size:50"`
	DelaySeconds      int64     `gorm:"not null;default:0"`
	Phone             string    `gorm:"size:20"`
	Body              string    `gorm:"type:text"`
	Status            string    `gorm:"not null;size:20;index:idx_cadence_status_send,priority:1"`
	SendAt            time.Time `gorm:"index:idx_cadence_status_send,priority:2"`
	Attempts          int       `gorm:"not null;default:0"`
	LastError         string    `gorm:"size:500"`
	ProviderMessageID string    `gorm:"size:100"`
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (CadenceMessageModel) TableName() string {
	return constants.TableCadenceMessages
}
