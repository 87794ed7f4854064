package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/application/partner/usecases"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/id"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// PartnerHandler manages the catalog of partner businesses offering discounts.
type PartnerHandler struct {
	createUC createPartnerUseCase
	updateUC updatePartnerUseCase
	getUC    getPartnerUseCase
	deleteUC deletePartnerUseCase
	listUC   listPartnersUseCase
	logger   logger.Interface
}

func NewPartnerHandler(
	createUC createPartnerUseCase,
	updateUC updatePartnerUseCase,
	getUC getPartnerUseCase,
	deleteUC deletePartnerUseCase,
	listUC listPartnersUseCase,
	logger logger.Interface,
) *PartnerHandler {
	return &PartnerHandler{
		createUC: createUC,
		updateUC: updateUC,
		getUC:    getUC,
		deleteUC: deleteUC,
		listUC:   listUC,
		logger:   logger,
	}
}

type PartnerRequest struct {
	Name               string `json:"name" binding:"required,max=200"`
	CNPJ               string `json:"cnpj" binding:"omitempty,cnpj"`
	Category           string `json:"category" binding:"required,max=50"`
	BenefitDescription string `json:"benefit_description" binding:"max=500"`
	DiscountPercent    string `json:"discount_percent"`
	City               string `json:"city" binding:"max=100"`
	// Active is only read on update; omitted keeps the partner listed.
	Active *bool `json:"active"`
}

func (r PartnerRequest) input() usecases.PartnerInput {
	return usecases.PartnerInput{
		Name:               r.Name,
		CNPJ:               r.CNPJ,
		Category:           r.Category,
		BenefitDescription: r.BenefitDescription,
		DiscountPercent:    r.DiscountPercent,
		City:               r.City,
	}
}

// Create handles POST /admin/partners
// @Summary		Create partner
// @Tags			partners
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			partner	body		PartnerRequest	true	"Partner data"
// @Success		201	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		409	{object}	utils.APIResponse	"Conflict"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/partners [post]
func (h *PartnerHandler) Create(c *gin.Context) {
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create partner", "error", err)
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.input())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Partner created successfully")
}

// Update handles PUT /admin/partners/:id
// @Summary		Update partner
// @Tags			partners
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Partner SID"
// @Param			partner	body		PartnerRequest	true	"Partner data"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		409	{object}	utils.APIResponse	"Conflict"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/partners/{id} [put]
func (h *PartnerHandler) Update(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPartner, "partner")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdatePartnerCommand{
		SID:    sid,
		Input:  req.input(),
		Active: active,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Partner updated", result)
}

// Get handles GET /admin/partners/:id
// @Summary		Get partner
// @Tags			partners
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Partner SID"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/partners/{id} [get]
func (h *PartnerHandler) Get(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPartner, "partner")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Delete handles DELETE /admin/partners/:id
// @Summary		Delete partner
// @Tags			partners
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Partner SID"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/partners/{id} [delete]
func (h *PartnerHandler) Delete(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPartner, "partner")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// List handles GET /admin/partners
// @Summary		List partners
// @Tags			partners
// @Produce		json
// @Security		Bearer
// @Param			page		query		int		false	"Page number"
// @Param			page_size	query		int		false	"Page size"
// @Param			category	query		string	false	"Category"
// @Param			city		query		string	false	"City"
// @Param			active		query		bool		false	"Active only"
// @Param			search		query		string	false	"Name or CNPJ"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/partners [get]
func (h *PartnerHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	query := usecases.ListPartnersQuery{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Search:   c.Query("search"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid active parameter", raw))
			return
		}
		query.Active = &active
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Partners, result.Total, result.Page, result.PageSize)
}
