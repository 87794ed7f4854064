package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

// WebhookEventModel is both the webhook log and the dedupe ledger.
type WebhookEventModel struct {
	ID            uint           `gorm:"primarykey"`
	SID           string         `gorm:"uniqueIndex;not null;size:50"`
	Provider      string         `gorm:"not null;size:20;uniqueIndex:uk_webhook_provider_event,priority:1"`
	EventID       string         `gorm:"not null;size:191;uniqueIndex:uk_webhook_provider_event,priority:2"`
	EventType     string         `gorm:"not null;size:100;index:idx_webhook_type"`
	Payload       datatypes.JSON `gorm:"not null"`
	Status        string         `gorm:"not null;size:20;index:idx_webhook_status_next,priority:1"`
	Outcome       string         `gorm:"size:100"`
	SubscriberID  *uint          `gorm:"index:idx_webhook_subscriber"`
	Attempts      int            `gorm:"not null;default:0"`
	LastError     string         `gorm:"type:text"`
	NextAttemptAt *time.Time     `gorm:"index:idx_webhook_status_next,priority:2"`
	AlertedAt     *time.Time
	OccurredAt    time.Time
	ReceivedAt    time.Time `gorm:"index:idx_webhook_received"`
	ProcessedAt   *time.Time
	UpdatedAt     time.Time
}

func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
