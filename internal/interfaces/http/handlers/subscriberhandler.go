package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cadenceuc "github.com/beneficlub/backoffice/internal/application/cadence/usecases"
	"github.com/beneficlub/backoffice/internal/application/subscriber/usecases"
	"github.com/beneficlub/backoffice/internal/shared/id"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// SubscriberHandler serves the operator console's subscriber screens.
type SubscriberHandler struct {
	createUC         createSubscriberUseCase
	getUC            getSubscriberUseCase
	listUC           listSubscribersUseCase
	updateStatusUC   updateSubscriberStatusUseCase
	updateProfileUC  updateSubscriberProfileUseCase
	listMessagesUC   listSubscriberMessagesUseCase
	cancelMessagesUC cancelSubscriberMessagesUseCase
	logger           logger.Interface
}

func NewSubscriberHandler(
	createUC createSubscriberUseCase,
	getUC getSubscriberUseCase,
	listUC listSubscribersUseCase,
	updateStatusUC updateSubscriberStatusUseCase,
	updateProfileUC updateSubscriberProfileUseCase,
	listMessagesUC listSubscriberMessagesUseCase,
	cancelMessagesUC cancelSubscriberMessagesUseCase,
	logger logger.Interface,
) *SubscriberHandler {
	return &SubscriberHandler{
		createUC:         createUC,
		getUC:            getUC,
		listUC:           listUC,
		updateStatusUC:   updateStatusUC,
		updateProfileUC:  updateProfileUC,
		listMessagesUC:   listMessagesUC,
		cancelMessagesUC: cancelMessagesUC,
		logger:           logger,
	}
}

type CreateSubscriberRequest struct {
	Kind         string `json:"kind" binding:"omitempty,oneof=individual corporate"`
	CompanySID   string `json:"company_sid" binding:"required_if=Kind corporate"`
	Name         string `json:"name" binding:"required,max=200"`
	Document     string `json:"document" binding:"required,document"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone" binding:"omitempty,phone_br"`
	PlanName     string `json:"plan_name" binding:"max=100"`
	Amount       string `json:"amount"`
	BillingCycle string `json:"billing_cycle" binding:"omitempty,oneof=monthly quarterly yearly"`
	NextDueDate  string `json:"next_due_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateSubscriberStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ativo vencido inativo"`
}

type UpdateSubscriberProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,phone_br"`
	PlanName     *string `json:"plan_name" binding:"omitempty,max=100"`
	Amount       *string `json:"amount"`
	BillingCycle *string `json:"billing_cycle" binding:"omitempty,oneof=monthly quarterly yearly"`
}

type CancelMessagesRequest struct {
	Cadences []string `json:"cadences"`
}

// Create handles POST /admin/subscribers
// @Summary		Create subscriber
// @Tags			subscribers
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			subscriber	body		CreateSubscriberRequest	true	"Subscriber data"
// @Success		201	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		409	{object}	utils.APIResponse	"Conflict"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers [post]
func (h *SubscriberHandler) Create(c *gin.Context) {
	var req CreateSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscriber", "error", err)
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateSubscriberCommand{
		Kind:         req.Kind,
		CompanySID:   req.CompanySID,
		Name:         req.Name,
		Document:     req.Document,
		Email:        req.Email,
		Phone:        req.Phone,
		PlanName:     req.PlanName,
		Amount:       req.Amount,
		BillingCycle: req.BillingCycle,
		NextDueDate:  req.NextDueDate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscriber created successfully")
}

// List handles GET /admin/subscribers
// @Summary		List subscribers
// @Tags			subscribers
// @Produce		json
// @Security		Bearer
// @Param			page		query		int		false	"Page number"
// @Param			page_size	query		int		false	"Page size"
// @Param			status		query		string	false	"ativo, vencido or inativo"
// @Param			kind		query		string	false	"individual or corporate"
// @Param			company_sid	query		string	false	"Company SID"
// @Param			search		query		string	false	"Name, document or email"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers [get]
func (h *SubscriberHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListSubscribersQuery{
		Status:     c.Query("status"),
		Kind:       c.Query("kind"),
		CompanySID: c.Query("company_sid"),
		Search:     c.Query("search"),
		Page:       p.Page,
		PageSize:   p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscribers, result.Total, result.Page, result.PageSize)
}

// Get handles GET /admin/subscribers/:id
// @Summary		Get subscriber
// @Tags			subscribers
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Subscriber SID"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers/{id} [get]
func (h *SubscriberHandler) Get(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscriber, "subscriber")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetSubscriberQuery{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateStatus handles PATCH /admin/subscribers/:id/status
// @Summary		Override subscriber status
// @Tags			subscribers
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Subscriber SID"
// @Param			status	body		UpdateSubscriberStatusRequest	true	"Target status"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		409	{object}	utils.APIResponse	"Conflict"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers/{id}/status [patch]
func (h *SubscriberHandler) UpdateStatus(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscriber, "subscriber")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateSubscriberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateSubscriberStatusCommand{
		SID:         sid,
		Status:      req.Status,
		OperatorSID: operatorSID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscriber status updated", result)
}

// UpdateProfile handles PATCH /admin/subscribers/:id
// @Summary		Update subscriber profile
// @Tags			subscribers
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Subscriber SID"
// @Param			profile	body		UpdateSubscriberProfileRequest	true	"Fields to change"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers/{id} [patch]
func (h *SubscriberHandler) UpdateProfile(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscriber, "subscriber")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateSubscriberProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	result, err := h.updateProfileUC.Execute(c.Request.Context(), usecases.UpdateSubscriberProfileCommand{
		SID:          sid,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PlanName:     req.PlanName,
		Amount:       req.Amount,
		BillingCycle: req.BillingCycle,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscriber updated", result)
}

// ListMessages handles GET /admin/subscribers/:id/messages
// @Summary		List cadence messages
// @Tags			subscribers
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Subscriber SID"
// @Param			page		query		int		false	"Page number"
// @Param			page_size	query		int		false	"Page size"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers/{id}/messages [get]
func (h *SubscriberHandler) ListMessages(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscriber, "subscriber")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.listMessagesUC.Execute(c.Request.Context(), cadenceuc.ListSubscriberMessagesQuery{
		SubscriberSID: sid,
		Page:          p.Page,
		PageSize:      p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Messages, result.Total, result.Page, result.PageSize)
}

// CancelMessages handles POST /admin/subscribers/:id/messages/cancel.
// An empty body cancels every pending message of the subscriber.
// @Summary		Cancel pending cadence messages
// @Tags			subscribers
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Subscriber SID"
// @Param			request	body		CancelMessagesRequest	false	"Cadences to cancel, all when empty"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/subscribers/{id}/messages/cancel [post]
func (h *SubscriberHandler) CancelMessages(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscriber, "subscriber")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CancelMessagesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
			return
		}
	}

	result, err := h.cancelMessagesUC.Execute(c.Request.Context(), cadenceuc.CancelSubscriberMessagesCommand{
		SubscriberSID: sid,
		Cadences:      req.Cadences,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("subscriber messages cancelled",
		"sid", sid,
		"cancelled", result.Cancelled,
		"operator_sid", operatorSID(c),
	)
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
