package webhook

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

var (
	ErrEventNotFound  = errors.New("webhook event not found")
	ErrDuplicateEvent = errors.New("webhook event already recorded")
	ErrEventLocked    = errors.New("webhook event is being processed elsewhere")
)

const maxErrorLength = 1000

// Event is one inbound gateway notification. The log is also the idempotency
// ledger: (provider, eventID) is unique.
type Event struct {
	id            uint
	sid           string
	provider      shared.Provider
	eventID       string
	eventType     string
	payload       []byte
	status        vo.EventStatus
	outcome       string
	subscriberID  *uint
	attempts      int
	lastError     string
	nextAttemptAt *time.Time
	alertedAt     *time.Time
	occurredAt    time.Time
	receivedAt    time.Time
	processedAt   *time.Time
	updatedAt     time.Time
}

func NewEvent(provider shared.Provider, eventID, eventType string, payload []byte, occurredAt time.Time) (*Event, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid webhook provider: %s", provider)
	}
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("webhook event ID is required")
	}
	if eventType == "" {
		return nil, fmt.Errorf("webhook event type is required")
	}

	now := biztime.NowUTC()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return &Event{
		sid:        id.NewWebhookID(),
		provider:   provider,
		eventID:    eventID,
		eventType:  eventType,
		payload:    payload,
		status:     vo.EventStatusReceived,
		occurredAt: occurredAt.UTC(),
		receivedAt: now,
		updatedAt:  now,
	}, nil
}

type ReconstructParams struct {
	ID            uint
	SID           string
	Provider      shared.Provider
	EventID       string
	EventType     string
	Payload       []byte
	Status        vo.EventStatus
	Outcome       string
	SubscriberID  *uint
	Attempts      int
	LastError     string
	NextAttemptAt *time.Time
	AlertedAt     *time.Time
	OccurredAt    time.Time
	ReceivedAt    time.Time
	ProcessedAt   *time.Time
	UpdatedAt     time.Time
}

func ReconstructEventWithParams(p ReconstructParams) (*Event, error) {
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid webhook event status: %s", p.Status)
	}
	return &Event{
		id:            p.ID,
		sid:           p.SID,
		provider:      p.Provider,
		eventID:       p.EventID,
		eventType:     p.EventType,
		payload:       p.Payload,
		status:        p.Status,
		outcome:       p.Outcome,
		subscriberID:  p.SubscriberID,
		attempts:      p.Attempts,
		lastError:     p.LastError,
		nextAttemptAt: p.NextAttemptAt,
		alertedAt:     p.AlertedAt,
		occurredAt:    p.OccurredAt,
		receivedAt:    p.ReceivedAt,
		processedAt:   p.ProcessedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}

func (e *Event) ID() uint                  { return e.id }
func (e *Event) SID() string               { return e.sid }
func (e *Event) Provider() shared.Provider { return e.provider }
func (e *Event) EventID() string           { return e.eventID }
func (e *Event) EventType() string         { return e.eventType }
func (e *Event) Payload() []byte           { return e.payload }
func (e *Event) Status() vo.EventStatus    { return e.status }
func (e *Event) Outcome() string           { return e.outcome }
func (e *Event) SubscriberID() *uint       { return e.subscriberID }
func (e *Event) Attempts() int             { return e.attempts }
func (e *Event) LastError() string         { return e.lastError }
func (e *Event) NextAttemptAt() *time.Time { return e.nextAttemptAt }
func (e *Event) AlertedAt() *time.Time     { return e.alertedAt }
func (e *Event) OccurredAt() time.Time     { return e.occurredAt }
func (e *Event) ReceivedAt() time.Time     { return e.receivedAt }
func (e *Event) ProcessedAt() *time.Time   { return e.processedAt }
func (e *Event) UpdatedAt() time.Time      { return e.updatedAt }

func (e *Event) SetID(newID uint) {
	e.id = newID
}

// NeedsProcessing reports whether a redelivery of this event should run the
// reconciler again: it failed, or it never got past received/processing for
// longer than stuckAfter.
func (e *Event) NeedsProcessing(now time.Time, stuckAfter time.Duration) bool {
	switch e.status {
	case vo.EventStatusFailed:
		return true
	case vo.EventStatusReceived, vo.EventStatusProcessing:
		return now.Sub(e.updatedAt) >= stuckAfter
	default:
		return false
	}
}

// StartAttempt counts an attempt and clears the pending retry.
func (e *Event) StartAttempt() {
	e.status = vo.EventStatusProcessing
	e.attempts++
	e.nextAttemptAt = nil
	e.touch()
}

func (e *Event) MarkProcessed(outcome string, subscriberID *uint) {
	e.finish(vo.EventStatusProcessed, outcome, subscriberID)
}

func (e *Event) MarkIgnored(outcome string, subscriberID *uint) {
	e.finish(vo.EventStatusIgnored, outcome, subscriberID)
}

// MarkFailed records err. A nil nextAttemptAt means retries are exhausted.
func (e *Event) MarkFailed(err error, nextAttemptAt *time.Time) {
	e.status = vo.EventStatusFailed
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	e.lastError = shared.Truncate(msg, maxErrorLength)
	e.outcome = "error"
	e.nextAttemptAt = nextAttemptAt
	e.touch()
}

// RetriesExhausted reports a failed event that the retry job will not pick up.
func (e *Event) RetriesExhausted(maxAttempts int) bool {
	return e.status == vo.EventStatusFailed && (e.nextAttemptAt == nil || e.attempts >= maxAttempts)
}

func (e *Event) MarkAlerted() {
	now := biztime.NowUTC()
	e.alertedAt = &now
	e.touch()
}

func (e *Event) finish(status vo.EventStatus, outcome string, subscriberID *uint) {
	now := biztime.NowUTC()
	e.status = status
	e.outcome = outcome
	e.lastError = ""
	e.nextAttemptAt = nil
	e.processedAt = &now
	if subscriberID != nil {
		e.subscriberID = subscriberID
	}
	e.updatedAt = now
}

func (e *Event) touch() {
	e.updatedAt = biztime.NowUTC()
}
