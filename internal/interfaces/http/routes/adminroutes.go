package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers"
	"github.com/beneficlub/backoffice/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for the operator console routes.
type AdminRouteConfig struct {
	SubscriberHandler *handlers.SubscriberHandler
	CompanyHandler    *handlers.CompanyHandler
	PartnerHandler    *handlers.PartnerHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// SetupAdminRoutes configures operator-only routes.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())

	subscribers := admin.Group("/subscribers")
	{
		subscribers.POST("", cfg.SubscriberHandler.Create)
		subscribers.GET("", cfg.SubscriberHandler.List)
		subscribers.GET("/:id", cfg.SubscriberHandler.Get)
		subscribers.PATCH("/:id", cfg.SubscriberHandler.UpdateProfile)
		subscribers.PATCH("/:id/status", cfg.SubscriberHandler.UpdateStatus)
		subscribers.GET("/:id/messages", cfg.SubscriberHandler.ListMessages)
		subscribers.POST("/:id/messages/cancel", cfg.SubscriberHandler.CancelMessages)
	}

	companies := admin.Group("/companies")
	{
		companies.POST("", cfg.CompanyHandler.Create)
		companies.GET("", cfg.CompanyHandler.List)
		companies.GET("/:id", cfg.CompanyHandler.Get)
	}

	partners := admin.Group("/partners")
	{
		partners.POST("", cfg.PartnerHandler.Create)
		partners.GET("", cfg.PartnerHandler.List)
		partners.GET("/:id", cfg.PartnerHandler.Get)
		partners.PUT("/:id", cfg.PartnerHandler.Update)
		partners.DELETE("/:id", cfg.PartnerHandler.Delete)
	}
}
