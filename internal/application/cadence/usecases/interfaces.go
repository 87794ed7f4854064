package usecases

import (
	"context"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	"github.com/beneficlub/backoffice/internal/domain/shared"
)

// Sender delivers one WhatsApp text and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, phone, text string) (string, error)
}

// TemplateDataFunc formats subscriber fields for step templates.
type TemplateDataFunc func(name, planName string, amount shared.Money, expiresAt, dueDate *time.Time) cadence.TemplateData

// RetryPolicy spaces out failed sends.
type RetryPolicy interface {
	NextDelay(attempt int) time.Duration
}

// Locker keeps two dispatcher instances from sending the same message.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// MetricsRecorder is optional. A nil recorder records nothing.
type MetricsRecorder interface {
	RecordCadenceMessage(cadence, status string)
}
