package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers"
	"github.com/beneficlub/backoffice/internal/interfaces/http/middleware"
)

// WebhookRouteConfig holds dependencies for gateway ingress and the
// operator's webhook log.
type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupWebhookRoutes configures webhook routes. Ingress is authenticated by
// the gateway's own token or signature, not by operator JWT.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	engine.POST("/webhooks/:provider", cfg.WebhookHandler.Receive)

	adminWebhooks := engine.Group("/admin/webhooks")
	adminWebhooks.Use(cfg.AuthMiddleware.RequireAuth())
	{
		adminWebhooks.GET("", cfg.WebhookHandler.ListEvents)
		adminWebhooks.GET("/:id", cfg.WebhookHandler.GetEvent)
		adminWebhooks.POST("/:id/reprocess", cfg.WebhookHandler.Reprocess)
	}
}
