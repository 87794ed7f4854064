package http

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers"
)

type allHandlers struct {
	webhookHandler    *handlers.WebhookHandler
	subscriberHandler *handlers.SubscriberHandler
	companyHandler    *handlers.CompanyHandler
	partnerHandler    *handlers.PartnerHandler
	authHandler       *handlers.AuthHandler
	healthHandler     *handlers.HealthHandler
}

func (c *Container) newHandlers() *allHandlers {
	u := c.ucs

	checks := handlers.HealthChecks{"database": gormPinger{db: c.db}}
	if c.redis != nil {
		checks["redis"] = redisPinger{client: c.redis}
	}

	return &allHandlers{
		webhookHandler: handlers.NewWebhookHandler(
			u.ingestWebhook,
			u.listWebhookEvents,
			u.getWebhookEvent,
			u.reprocessWebhook,
			c.log,
		),
		subscriberHandler: handlers.NewSubscriberHandler(
			u.createSubscriber,
			u.getSubscriber,
			u.listSubscribers,
			u.updateSubscriberStatus,
			u.updateSubscriberProfile,
			u.listSubscriberMessages,
			u.cancelSubscriberMsgs,
			c.log,
		),
		companyHandler: handlers.NewCompanyHandler(u.createCompany, u.getCompany, u.listCompanies, c.log),
		partnerHandler: handlers.NewPartnerHandler(
			u.createPartner,
			u.updatePartner,
			u.getPartner,
			u.deletePartner,
			u.listPartners,
			c.log,
		),
		authHandler:   handlers.NewAuthHandler(u.login, c.log),
		healthHandler: handlers.NewHealthHandler(checks, c.log),
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
