package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers"
	"github.com/beneficlub/backoffice/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for operator authentication routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
	RateLimiter *middleware.RateLimiter
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)
	}
}
