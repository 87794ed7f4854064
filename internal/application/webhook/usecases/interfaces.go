package usecases

import (
	"context"
	"time"

	"github.com/beneficlub/backoffice/internal/application/webhook/dto"
	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
)

// CadenceTrigger reacts to subscriber status changes by scheduling or
// cancelling WhatsApp cadences. It runs inside the reconciling transaction.
type CadenceTrigger interface {
	OnTransition(ctx context.Context, sub *subscriber.Subscriber, t subscriber.Transition, at time.Time) error
}

// MetricsRecorder is optional. A nil recorder records nothing.
type MetricsRecorder interface {
	RecordWebhook(provider, status string, duration time.Duration)
	RecordWebhookRetry(provider string)
}

// AlertNotifier tells operators that an event ran out of retries.
type AlertNotifier interface {
	NotifyWebhookExhausted(ctx context.Context, ev *webhook.Event) error
}

// GatewayResolver is satisfied by *gateway.Registry.
type GatewayResolver interface {
	Get(provider shared.Provider) (gateway.Gateway, error)
}

// EventProcessor runs a recorded event through the reconciler.
type EventProcessor interface {
	Process(ctx context.Context, ev *webhook.Event, n *gateway.Notification) error
}

type IngestWebhookExecutor interface {
	Execute(ctx context.Context, cmd IngestWebhookCommand) (*dto.IngestResult, error)
}

type ReprocessWebhookExecutor interface {
	Execute(ctx context.Context, cmd ReprocessWebhookCommand) (*dto.WebhookEventDTO, error)
}

type ListWebhookEventsExecutor interface {
	Execute(ctx context.Context, query ListWebhookEventsQuery) (*dto.ListWebhookEventsResponse, error)
}

type GetWebhookEventExecutor interface {
	Execute(ctx context.Context, query GetWebhookEventQuery) (*dto.WebhookEventDTO, error)
}
