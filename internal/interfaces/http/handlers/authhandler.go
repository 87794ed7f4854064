package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/application/operator/usecases"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

type AuthHandler struct {
	loginUseCase loginUseCase
	logger       logger.Interface
}

func NewAuthHandler(loginUC loginUseCase, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		logger:       logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login and answers with a bearer token.
// @Summary		Operator login
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			login	body		LoginRequest	true	"Credentials"
// @Success		200	{object}	utils.APIResponse
// @Failure		400	{object}	utils.APIResponse	"Bad request"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		429	{object}	utils.APIResponse	"Too many requests"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.ValidationErrorFrom(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), usecases.LoginCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.logger.Warnw("operator login failed", "email", utils.MaskEmail(req.Email), "ip", c.ClientIP())
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", result)
}
