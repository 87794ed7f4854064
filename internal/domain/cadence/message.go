package cadence

import (
	"errors"
	"fmt"
	"time"

	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

var (
	ErrMessageNotFound = errors.New("cadence message not found")
	// ErrMessageSuperseded means the stored row left pending before the
	// update landed, usually because it was cancelled during a send.
	ErrMessageSuperseded = errors.New("cadence message no longer pending")
)

// maxLastErrorLength matches the last_error column.
const maxLastErrorLength = 500

// Outcomes recorded on messages that were not sent.
const (
	OutcomeNoPhone         = "no_phone"
	OutcomeSubscriberGone  = "subscriber_not_found"
	OutcomeReactivated     = "subscriber_reactivated"
	OutcomeInactivated     = "subscriber_inactivated"
	OutcomeOperatorRequest = "operator_request"
)

// Message is one persisted step of a cadence run.
type Message struct {
	id                uint
	sid               string
	runID             string
	subscriberID      uint
	cadence           vo.CadenceName
	stepIndex         int
	delay             time.Duration
	phone             string
	body              string
	status            vo.MessageStatus
	sendAt            time.Time
	attempts          int
	lastError         string
	providerMessageID string
	completedAt       *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// PlanRun lays out the messages of a new run. Every step gets a provisional
// send time chained from the trigger; the dispatcher re-anchors each step
// on the real completion of the previous one. Without a phone every step is
// created already skipped.
func PlanRun(subscriberID uint, c Cadence, trigger time.Time, phone string, bodies []string) ([]*Message, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(bodies) != len(c.Steps) {
		return nil, fmt.Errorf("cadence %s: %d bodies for %d steps", c.Name, len(bodies), len(c.Steps))
	}

	runID := id.NewCadenceRunID()
	now := biztime.NowUTC()
	sendAt := trigger.UTC()
	msgs := make([]*Message, 0, len(c.Steps))
	for i, step := range c.Steps {
		sendAt = sendAt.Add(step.Delay)
		m := &Message{
			sid:          id.NewMessageID(),
			runID:        runID,
			subscriberID: subscriberID,
			cadence:      c.Name,
			stepIndex:    i,
			delay:        step.Delay,
			phone:        phone,
			body:         bodies[i],
			status:       vo.MessageStatusPending,
			sendAt:       sendAt,
			createdAt:    now,
			updatedAt:    now,
		}
		if phone == "" {
			m.Skip(OutcomeNoPhone)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

type ReconstructParams struct {
	ID                uint
	SID               string
	RunID             string
	SubscriberID      uint
	Cadence           vo.CadenceName
	StepIndex         int
	Delay             time.Duration
	Phone             string
	Body              string
	Status            vo.MessageStatus
	SendAt            time.Time
	Attempts          int
	LastError         string
	ProviderMessageID string
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructMessageWithParams(p ReconstructParams) *Message {
	return &Message{
		id:                p.ID,
		sid:               p.SID,
		runID:             p.RunID,
		subscriberID:      p.SubscriberID,
		cadence:           p.Cadence,
		stepIndex:         p.StepIndex,
		delay:             p.Delay,
		phone:             p.Phone,
		body:              p.Body,
		status:            p.Status,
		sendAt:            p.SendAt,
		attempts:          p.Attempts,
		lastError:         p.LastError,
		providerMessageID: p.ProviderMessageID,
		completedAt:       p.CompletedAt,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}
}

func (m *Message) ID() uint                  { return m.id }
func (m *Message) SID() string               { return m.sid }
func (m *Message) RunID() string             { return m.runID }
func (m *Message) SubscriberID() uint        { return m.subscriberID }
func (m *Message) Cadence() vo.CadenceName   { return m.cadence }
func (m *Message) StepIndex() int            { return m.stepIndex }
func (m *Message) Delay() time.Duration      { return m.delay }
func (m *Message) Phone() string             { return m.phone }
func (m *Message) Body() string              { return m.body }
func (m *Message) Status() vo.MessageStatus  { return m.status }
func (m *Message) SendAt() time.Time         { return m.sendAt }
func (m *Message) Attempts() int             { return m.attempts }
func (m *Message) LastError() string         { return m.lastError }
func (m *Message) ProviderMessageID() string { return m.providerMessageID }
func (m *Message) CompletedAt() *time.Time   { return m.completedAt }
func (m *Message) CreatedAt() time.Time      { return m.createdAt }
func (m *Message) UpdatedAt() time.Time      { return m.updatedAt }

func (m *Message) SetID(newID uint) {
	m.id = newID
}

func (m *Message) IsPending() bool {
	return m.status == vo.MessageStatusPending
}

func (m *Message) MarkSent(providerMessageID string, at time.Time) {
	m.attempts++
	m.providerMessageID = providerMessageID
	m.lastError = ""
	m.complete(vo.MessageStatusSent, at)
}

// MarkAttemptFailed records a failed send. A nil retryAt makes the failure
// terminal so the run can move on.
func (m *Message) MarkAttemptFailed(err error, retryAt *time.Time, at time.Time) {
	m.attempts++
	if err != nil {
		m.lastError = shared.Truncate(err.Error(), maxLastErrorLength)
	}
	if retryAt == nil {
		m.complete(vo.MessageStatusFailed, at)
		return
	}
	m.sendAt = retryAt.UTC()
	m.updatedAt = biztime.NowUTC()
}

func (m *Message) Skip(reason string) {
	if !m.IsPending() {
		return
	}
	m.lastError = reason
	m.complete(vo.MessageStatusSkipped, biztime.NowUTC())
}

func (m *Message) Cancel(reason string) bool {
	if !m.IsPending() {
		return false
	}
	m.lastError = reason
	m.complete(vo.MessageStatusCancelled, biztime.NowUTC())
	return true
}

// Reanchor schedules a pending step relative to the previous step's completion.
func (m *Message) Reanchor(previousCompletedAt time.Time) {
	if !m.IsPending() {
		return
	}
	m.sendAt = previousCompletedAt.UTC().Add(m.delay)
	m.updatedAt = biztime.NowUTC()
}

func (m *Message) complete(status vo.MessageStatus, at time.Time) {
	t := at.UTC()
	m.status = status
	m.completedAt = &t
	m.updatedAt = biztime.NowUTC()
}
