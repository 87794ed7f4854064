package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

func failedEvent(t *testing.T) *webhook.Event {
	t.Helper()
	ev, err := webhook.ReconstructEventWithParams(webhook.ReconstructParams{
		ID:         7,
		SID:        "whk_abc",
		Provider:   shared.ProviderAsaas,
		EventID:    "evt_1",
		EventType:  "PAYMENT_CONFIRMED",
		Status:     vo.EventStatusFailed,
		Attempts:   8,
		LastError:  "subscriber update: <timeout>",
		ReceivedAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return ev
}

func TestAlertNotifier_NotifyWebhookExhausted(t *testing.T) {
	var sent *gomail.Message
	svc := NewSMTPEmailService(SMTPConfig{Host: "smtp.test", Port: 587, FromAddress: "noreply@clube.test", FromName: "Clube"})
	svc.send = func(m *gomail.Message) error {
		sent = m
		return nil
	}
	n := NewAlertNotifier(svc, []string{"ops@clube.test", "dev@clube.test"}, nil, logger.NewNopLogger())

	require.NoError(t, n.NotifyWebhookExhausted(context.Background(), failedEvent(t)))
	require.NotNil(t, sent)

	assert.Equal(t, []string{"ops@clube.test", "dev@clube.test"}, sent.GetHeader("To"))
	assert.Contains(t, sent.GetHeader("Subject")[0], "PAYMENT_CONFIRMED failed after 8 attempts")

	var buf bytes.Buffer
	_, err := sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Log id:    whk_abc")
	assert.Contains(t, buf.String(), "Error:     subscriber update: <timeout>")
}

func TestAlertNotifier_SendFailure(t *testing.T) {
	svc := NewSMTPEmailService(SMTPConfig{Host: "smtp.test", Port: 587, FromAddress: "noreply@clube.test"})
	svc.send = func(*gomail.Message) error { return errors.New("connection refused") }
	n := NewAlertNotifier(svc, []string{"ops@clube.test"}, nil, logger.NewNopLogger())

	err := n.NotifyWebhookExhausted(context.Background(), failedEvent(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAlertNotifier_NotConfigured(t *testing.T) {
	n := NewAlertNotifier(NewSMTPEmailService(SMTPConfig{}), []string{"ops@clube.test"}, nil, logger.NewNopLogger())

	err := n.NotifyWebhookExhausted(context.Background(), failedEvent(t))
	assert.ErrorIs(t, err, ErrEmailServiceNotConfigured)
}
