package http

import (
	"fmt"

	"github.com/beneficlub/backoffice/internal/infrastructure/scheduler"
	"github.com/beneficlub/backoffice/internal/interfaces/http/middleware"
	"github.com/beneficlub/backoffice/internal/interfaces/http/routes"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// SetupRoutes installs the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	utils.RegisterBindingValidations()

	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log, c.metrics))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	routes.SetupSystemRoutes(c.engine, &routes.SystemRouteConfig{
		HealthHandler:  c.hdlrs.healthHandler,
		MetricsHandler: c.metrics.Handler(),
	})

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler: c.hdlrs.authHandler,
		RateLimiter: c.rateLimiter,
	})

	routes.SetupWebhookRoutes(c.engine, &routes.WebhookRouteConfig{
		WebhookHandler: c.hdlrs.webhookHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		SubscriberHandler: c.hdlrs.subscriberHandler,
		CompanyHandler:    c.hdlrs.companyHandler,
		PartnerHandler:    c.hdlrs.partnerHandler,
		AuthMiddleware:    c.authMiddleware,
	})

	c.log.Infow("http routes configured", "routes", len(c.engine.Routes()))
}

func (c *Container) initScheduler() error {
	mgr, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := mgr.RegisterSweeperJob(c.cfg.Sweeper.Cron, c.ucs.sweepSubscribers); err != nil {
		return fmt.Errorf("failed to register sweeper job: %w", err)
	}

	if c.ucs.dispatchCadence != nil {
		if err := mgr.RegisterCadenceDispatchJob(c.cfg.Cadence.DispatchInterval, c.ucs.dispatchCadence); err != nil {
			return fmt.Errorf("failed to register cadence dispatch job: %w", err)
		}
	}

	var alertJob scheduler.BatchJob
	if c.svcs.alerts != nil {
		alertJob = c.ucs.alertExhaustedWebhooks
	}
	if err := mgr.RegisterWebhookRetryJobs(c.cfg.Webhook.RetryInterval, c.ucs.retryWebhooks, alertJob); err != nil {
		return fmt.Errorf("failed to register webhook retry job: %w", err)
	}

	c.schedulerManager = mgr
	return nil
}
