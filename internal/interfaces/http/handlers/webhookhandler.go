package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	webhookuc "github.com/beneficlub/backoffice/internal/application/webhook/usecases"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/id"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// maxWebhookBody caps gateway payloads; Stripe documents 256KB as the
// largest event it sends.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	ingestUC    ingestWebhookUseCase
	listUC      listWebhookEventsUseCase
	getUC       getWebhookEventUseCase
	reprocessUC reprocessWebhookUseCase
	logger      logger.Interface
}

func NewWebhookHandler(
	ingestUC ingestWebhookUseCase,
	listUC listWebhookEventsUseCase,
	getUC getWebhookEventUseCase,
	reprocessUC reprocessWebhookUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		ingestUC:    ingestUC,
		listUC:      listUC,
		getUC:       getUC,
		reprocessUC: reprocessUC,
		logger:      logger,
	}
}

// Receive handles POST /webhooks/:provider. Gateways retry on any non-2xx
// answer, so only failures that a redelivery could fix answer 5xx.
// @Summary		Receive gateway webhook
// @Description	Duplicate and in-flight deliveries answer 200
// @Tags			webhooks
// @Accept			json
// @Produce		json
// @Param			provider	path		string	true	"asaas or stripe"
// @Success		200	{object}	map[string]interface{}	"Ingest result"
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/webhooks/{provider} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := shared.Provider(c.Param("provider"))

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponseWithError(c, apperrors.NewBadRequestError("payload too large"))
			return
		}
		h.logger.Warnw("failed to read webhook body", "provider", provider, "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewBadRequestError("failed to read request body"))
		return
	}

	result, err := h.ingestUC.Execute(c.Request.Context(), webhookuc.IngestWebhookCommand{
		Provider: provider,
		Headers:  c.Request.Header,
		Payload:  body,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListEvents handles GET /admin/webhooks.
// @Summary		List webhook events
// @Tags			webhooks
// @Produce		json
// @Security		Bearer
// @Param			page		query		int		false	"Page number"
// @Param			page_size	query		int		false	"Page size"
// @Param			provider		query		string	false	"asaas or stripe"
// @Param			status		query		string	false	"Event status"
// @Param			event_type	query		string	false	"Provider event type"
// @Param			subscriber_sid	query		string	false	"Subscriber SID"
// @Param			from		query		string	false	"RFC 3339 lower bound"
// @Param			to			query		string	false	"RFC 3339 upper bound"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/webhooks [get]
func (h *WebhookHandler) ListEvents(c *gin.Context) {
	p := utils.ParsePagination(c)
	query := webhookuc.ListWebhookEventsQuery{
		Provider:      c.Query("provider"),
		Status:        c.Query("status"),
		EventType:     c.Query("event_type"),
		SubscriberSID: c.Query("subscriber_sid"),
		Page:          p.Page,
		PageSize:      p.PageSize,
	}

	var err error
	if query.From, err = parseTimeQuery(c, "from"); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if query.To, err = parseTimeQuery(c, "to"); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Events, result.Total, result.Page, result.PageSize)
}

// GetEvent handles GET /admin/webhooks/:id, including the raw payload.
// @Summary		Get webhook event
// @Tags			webhooks
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Webhook event SID"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/webhooks/{id} [get]
func (h *WebhookHandler) GetEvent(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixWebhook, "webhook event")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), webhookuc.GetWebhookEventQuery{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Reprocess handles POST /admin/webhooks/:id/reprocess. A replay that fails
// still answers 200; the returned event carries the failure.
// @Summary		Reprocess webhook event
// @Tags			webhooks
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Webhook event SID"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		409	{object}	utils.APIResponse	"Conflict"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/webhooks/{id}/reprocess [post]
func (h *WebhookHandler) Reprocess(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixWebhook, "webhook event")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reprocessUC.Execute(c.Request.Context(), webhookuc.ReprocessWebhookCommand{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("webhook event reprocessed",
		"sid", sid,
		"status", result.Status,
		"operator_sid", operatorSID(c),
	)
	utils.SuccessResponse(c, http.StatusOK, "Webhook event reprocessed", result)
}

// parseTimeQuery accepts RFC 3339 timestamps or YYYY-MM-DD business dates.
func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := biztime.ParseDate(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+key+" parameter", raw)
	}
	return &t, nil
}
