package http

import (
	"fmt"

	cadenceuc "github.com/beneficlub/backoffice/internal/application/cadence/usecases"
	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	webhookuc "github.com/beneficlub/backoffice/internal/application/webhook/usecases"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/infrastructure/auth"
	"github.com/beneficlub/backoffice/internal/infrastructure/cache"
	"github.com/beneficlub/backoffice/internal/infrastructure/email"
	"github.com/beneficlub/backoffice/internal/infrastructure/gateway/asaas"
	"github.com/beneficlub/backoffice/internal/infrastructure/gateway/stripe"
	"github.com/beneficlub/backoffice/internal/infrastructure/ratelimit"
	"github.com/beneficlub/backoffice/internal/infrastructure/template"
	"github.com/beneficlub/backoffice/internal/infrastructure/whatsapp"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
)

// services holds infrastructure adapters the use cases depend on. Optional
// integrations are nil interfaces when not configured.
type services struct {
	gateways     *gateway.Registry
	locker       webhook.Locker
	loginLimiter ratelimit.RateLimiter
	jwt          *auth.JWTService
	hasher       *auth.BcryptPasswordHasher
	catalog      *template.CadenceCatalog
	renderer     *template.TextRenderer
	sender       cadenceuc.Sender
	alerts       webhookuc.AlertNotifier
}

func (c *Container) newServices() (*services, error) {
	s := &services{
		gateways: gateway.NewRegistry(
			asaas.NewGateway(c.cfg.Asaas.WebhookToken),
			stripe.NewGateway(c.cfg.Stripe.WebhookSecret, c.cfg.Stripe.SignatureTolerance),
		),
		jwt:      auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes),
		hasher:   auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost),
		catalog:  template.NewCadenceCatalog(c.cfg.Cadence.CatalogPath, c.log),
		renderer: template.NewTextRenderer(),
	}

	if err := s.catalog.Load(); err != nil {
		return nil, fmt.Errorf("failed to load cadence catalog: %w", err)
	}

	if c.redis != nil {
		s.locker = cache.NewRedisLocker(c.redis)
		s.loginLimiter = ratelimit.NewRedisRateLimiter(c.redis, ratelimit.Policy{
			PerMinute: c.cfg.Auth.RateLimit.LoginPerMinute,
			PerHour:   c.cfg.Auth.RateLimit.LoginPerHour,
		})
	} else {
		c.log.Warnw("redis disabled, webhook locks are local to this process and login is not rate limited")
		s.locker = cache.NewMemoryLocker()
	}

	if c.cfg.WhatsApp.IsConfigured() {
		s.sender = whatsapp.NewClient(c.cfg.WhatsApp, c.log)
	} else {
		c.log.Warnw("whatsapp not configured, cadence messages will stay pending")
	}

	if c.cfg.Email.IsConfigured() {
		smtp := email.NewSMTPEmailService(email.SMTPConfigFrom(c.cfg.Email))
		s.alerts = email.NewAlertNotifier(smtp, c.cfg.Email.AlertTo, biztime.Location(), c.log)
	} else {
		c.log.Infow("email alerts not configured, exhausted webhooks are only logged")
	}

	return s, nil
}
