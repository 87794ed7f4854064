package dto

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/domain/webhook"
)

// IngestResult is what the gateway endpoints answer with. Gateways only look
// at the status code; the body helps when replaying deliveries by hand.
type IngestResult struct {
	EventSID   string `json:"event_sid,omitempty"`
	Status     string `json:"status,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	Duplicate  bool   `json:"duplicate,omitempty"`
	InProgress bool   `json:"in_progress,omitempty"`
}

type WebhookEventDTO struct {
	SID           string          `json:"sid"`
	Provider      string          `json:"provider"`
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Status        string          `json:"status"`
	Outcome       string          `json:"outcome,omitempty"`
	SubscriberID  *uint           `json:"subscriber_id,omitempty"`
	Attempts      int             `json:"attempts"`
	LastError     string          `json:"last_error,omitempty"`
	NextAttemptAt *time.Time      `json:"next_attempt_at,omitempty"`
	AlertedAt     *time.Time      `json:"alerted_at,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	ReceivedAt    time.Time       `json:"received_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type ListWebhookEventsResponse struct {
	Events   []*WebhookEventDTO `json:"events"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// ToWebhookEventDTO converts an event. The raw payload is only included on
// the detail view.
func ToWebhookEventDTO(ev *webhook.Event, withPayload bool) *WebhookEventDTO {
	if ev == nil {
		return nil
	}
	d := &WebhookEventDTO{
		SID:           ev.SID(),
		Provider:      ev.Provider().String(),
		EventID:       ev.EventID(),
		EventType:     ev.EventType(),
		Status:        ev.Status().String(),
		Outcome:       ev.Outcome(),
		SubscriberID:  ev.SubscriberID(),
		Attempts:      ev.Attempts(),
		LastError:     ev.LastError(),
		NextAttemptAt: ev.NextAttemptAt(),
		AlertedAt:     ev.AlertedAt(),
		OccurredAt:    ev.OccurredAt(),
		ReceivedAt:    ev.ReceivedAt(),
		ProcessedAt:   ev.ProcessedAt(),
	}
	if withPayload && json.Valid(ev.Payload()) {
		d.Payload = json.RawMessage(ev.Payload())
	}
	return d
}

func ToWebhookEventDTOList(events []*webhook.Event) []*WebhookEventDTO {
	return lo.Map(events, func(ev *webhook.Event, _ int) *WebhookEventDTO {
		return ToWebhookEventDTO(ev, false)
	})
}
