package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/application/webhook/dto"
	"github.com/beneficlub/backoffice/internal/application/webhook/usecases"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers/testutil"
	"github.com/beneficlub/backoffice/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockIngestWebhookUC struct {
	result *dto.IngestResult
	err    error
	got    usecases.IngestWebhookCommand
}

func (m *mockIngestWebhookUC) Execute(ctx context.Context, cmd usecases.IngestWebhookCommand) (*dto.IngestResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListWebhookEventsUC struct {
	result *dto.ListWebhookEventsResponse
	err    error
	got    usecases.ListWebhookEventsQuery
}

func (m *mockListWebhookEventsUC) Execute(ctx context.Context, query usecases.ListWebhookEventsQuery) (*dto.ListWebhookEventsResponse, error) {
	m.got = query
	return m.result, m.err
}

type mockGetWebhookEventUC struct {
	result *dto.WebhookEventDTO
	err    error
}

func (m *mockGetWebhookEventUC) Execute(ctx context.Context, query usecases.GetWebhookEventQuery) (*dto.WebhookEventDTO, error) {
	return m.result, m.err
}

type mockReprocessWebhookUC struct {
	result *dto.WebhookEventDTO
	err    error
	got    string
}

func (m *mockReprocessWebhookUC) Execute(ctx context.Context, cmd usecases.ReprocessWebhookCommand) (*dto.WebhookEventDTO, error) {
	m.got = cmd.SID
	return m.result, m.err
}

type webhookMocks struct {
	ingest    *mockIngestWebhookUC
	list      *mockListWebhookEventsUC
	get       *mockGetWebhookEventUC
	reprocess *mockReprocessWebhookUC
}

func newTestWebhookHandler() (*WebhookHandler, *webhookMocks) {
	m := &webhookMocks{
		ingest:    &mockIngestWebhookUC{},
		list:      &mockListWebhookEventsUC{},
		get:       &mockGetWebhookEventUC{},
		reprocess: &mockReprocessWebhookUC{},
	}
	return NewWebhookHandler(m.ingest, m.list, m.get, m.reprocess, testutil.NewMockLogger()), m
}

// =====================================================================
// Receive
// =====================================================================

func TestWebhookHandler_Receive_PassesRawPayload(t *testing.T) {
	handler, m := newTestWebhookHandler()
	m.ingest.result = &dto.IngestResult{EventSID: "whk_abc", Status: "processed", Outcome: "activated"}

	payload := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1"}}`)
	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/asaas", payload, map[string]string{
		"asaas-access-token": "secret",
	})
	testutil.SetURLParam(c, "provider", "asaas")

	handler.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shared.Provider("asaas"), m.ingest.got.Provider)
	assert.Equal(t, payload, m.ingest.got.Payload)
	assert.Equal(t, "secret", m.ingest.got.Headers.Get("Asaas-Access-Token"))

	var body dto.IngestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "whk_abc", body.EventSID)
	assert.Equal(t, "activated", body.Outcome)
}

func TestWebhookHandler_Receive_Duplicate(t *testing.T) {
	handler, m := newTestWebhookHandler()
	m.ingest.result = &dto.IngestResult{EventSID: "whk_abc", Status: "processed", Duplicate: true}

	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/stripe", []byte(`{}`), nil)
	testutil.SetURLParam(c, "provider", "stripe")

	handler.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
}

func TestWebhookHandler_Receive_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad signature", errors.NewUnauthorizedError("invalid webhook signature"), http.StatusUnauthorized},
		{"malformed payload", errors.NewValidationError("malformed payload"), http.StatusBadRequest},
		{"unknown provider", errors.NewNotFoundError("unknown provider"), http.StatusNotFound},
		{"processing failed", errors.NewInternalError("failed to process webhook"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := newTestWebhookHandler()
			m.ingest.err = tt.err

			c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/asaas", []byte(`{}`), nil)
			testutil.SetURLParam(c, "provider", "asaas")

			handler.Receive(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// =====================================================================
// Admin endpoints
// =====================================================================

func TestWebhookHandler_ListEvents_Filters(t *testing.T) {
	handler, m := newTestWebhookHandler()
	m.list.result = &dto.ListWebhookEventsResponse{
		Events: []*dto.WebhookEventDTO{{SID: "whk_1"}},
		Total:  1, Page: 1, PageSize: 20,
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/webhooks", nil)
	testutil.SetQueryParams(c, map[string]string{
		"provider": "asaas",
		"status":   "failed",
		"from":     "2024-06-01",
		"to":       "2024-06-30T23:59:59Z",
	})

	handler.ListEvents(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "asaas", m.list.got.Provider)
	assert.Equal(t, "failed", m.list.got.Status)
	require.NotNil(t, m.list.got.From)
	require.NotNil(t, m.list.got.To)
	assert.True(t, m.list.got.From.Before(*m.list.got.To))

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list testutil.ListData
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, int64(1), list.Total)
}

func TestWebhookHandler_ListEvents_InvalidDate(t *testing.T) {
	handler, _ := newTestWebhookHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/webhooks", nil)
	testutil.SetQueryParams(c, map[string]string{"from": "yesterday"})

	handler.ListEvents(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_GetEvent_InvalidID(t *testing.T) {
	handler, _ := newTestWebhookHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/webhooks/sub_1", nil)
	testutil.SetURLParam(c, "id", "sub_1")

	handler.GetEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_Reprocess(t *testing.T) {
	handler, m := newTestWebhookHandler()
	m.reprocess.result = &dto.WebhookEventDTO{SID: "whk_1", Status: "processed"}

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/webhooks/whk_1/reprocess", nil)
	testutil.SetURLParam(c, "id", "whk_1")
	testutil.SetOperatorContext(c, "op_1")

	handler.Reprocess(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "whk_1", m.reprocess.got)
}

func TestWebhookHandler_Reprocess_NotFound(t *testing.T) {
	handler, m := newTestWebhookHandler()
	m.reprocess.err = errors.NewNotFoundError("webhook event not found")

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/webhooks/whk_1/reprocess", nil)
	testutil.SetURLParam(c, "id", "whk_1")

	handler.Reprocess(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
