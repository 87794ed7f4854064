package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/shared/constants"
)

// operatorSID returns the operator set by the auth middleware, if any.
func operatorSID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyOperatorID)
}
