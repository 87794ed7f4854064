package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/application/company/usecases"
	"github.com/beneficlub/backoffice/internal/shared/id"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

type CompanyHandler struct {
	createUC createCompanyUseCase
	getUC    getCompanyUseCase
	listUC   listCompaniesUseCase
	logger   logger.Interface
}

func NewCompanyHandler(
	createUC createCompanyUseCase,
	getUC getCompanyUseCase,
	listUC listCompaniesUseCase,
	logger logger.Interface,
) *CompanyHandler {
	return &CompanyHandler{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		logger:   logger,
	}
}

type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	CNPJ         string `json:"cnpj" binding:"required,cnpj"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"omitempty,phone_br"`
	SeatLimit    int    `json:"seat_limit" binding:"min=0"`
}

// Create handles POST /admin/companies
// @Summary		Create company
// @Tags			companies
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			company	body		CreateCompanyRequest	true	"Company data"
// @Success		201	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		409	{object}	utils.APIResponse	"Conflict"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create company", "error", err)
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateCompanyCommand{
		Name:         req.Name,
		CNPJ:         req.CNPJ,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		SeatLimit:    req.SeatLimit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Company created successfully")
}

// Get handles GET /admin/companies/:id
// @Summary		Get company
// @Tags			companies
// @Produce		json
// @Security		Bearer
// @Param			id		path		string	true	"Company SID"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		404	{object}	utils.APIResponse	"Not found"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/companies/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCompany, "company")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetCompanyQuery{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// List handles GET /admin/companies
// @Summary		List companies
// @Tags			companies
// @Produce		json
// @Security		Bearer
// @Param			page		query		int		false	"Page number"
// @Param			page_size	query		int		false	"Page size"
// @Param			search		query		string	false	"Name or CNPJ"
// @Success		200	{object}	utils.APIResponse
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListCompaniesQuery{
		Search:   c.Query("search"),
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Companies, result.Total, result.Page, result.PageSize)
}
