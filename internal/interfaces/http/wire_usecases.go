package http

import (
	"time"

	cadenceuc "github.com/beneficlub/backoffice/internal/application/cadence/usecases"
	companyuc "github.com/beneficlub/backoffice/internal/application/company/usecases"
	operatoruc "github.com/beneficlub/backoffice/internal/application/operator/usecases"
	partneruc "github.com/beneficlub/backoffice/internal/application/partner/usecases"
	subscriberuc "github.com/beneficlub/backoffice/internal/application/subscriber/usecases"
	webhookuc "github.com/beneficlub/backoffice/internal/application/webhook/usecases"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/infrastructure/template"
	"github.com/beneficlub/backoffice/internal/infrastructure/whatsapp"
)

const (
	webhookRetryMaxDelay = time.Hour
	cadenceRetryInitial  = time.Minute
	cadenceRetryMaxDelay = 30 * time.Minute
)

type allUseCases struct {
	// Webhook
	ingestWebhook          *webhookuc.IngestWebhookUseCase
	reprocessWebhook       *webhookuc.ReprocessWebhookUseCase
	listWebhookEvents      *webhookuc.ListWebhookEventsUseCase
	getWebhookEvent        *webhookuc.GetWebhookEventUseCase
	retryWebhooks          *webhookuc.RetryWebhooksUseCase
	alertExhaustedWebhooks *webhookuc.AlertExhaustedWebhooksUseCase

	// Cadence
	dispatchCadence        *cadenceuc.DispatchCadenceUseCase
	listSubscriberMessages *cadenceuc.ListSubscriberMessagesUseCase
	cancelSubscriberMsgs   *cadenceuc.CancelSubscriberMessagesUseCase

	// Subscriber
	createSubscriber        *subscriberuc.CreateSubscriberUseCase
	getSubscriber           *subscriberuc.GetSubscriberUseCase
	listSubscribers         *subscriberuc.ListSubscribersUseCase
	updateSubscriberStatus  *subscriberuc.UpdateSubscriberStatusUseCase
	updateSubscriberProfile *subscriberuc.UpdateSubscriberProfileUseCase
	sweepSubscribers        *subscriberuc.SweepSubscribersUseCase

	// Catalog
	createCompany *companyuc.CreateCompanyUseCase
	getCompany    *companyuc.GetCompanyUseCase
	listCompanies *companyuc.ListCompaniesUseCase
	createPartner *partneruc.CreatePartnerUseCase
	updatePartner *partneruc.UpdatePartnerUseCase
	getPartner    *partneruc.GetPartnerUseCase
	deletePartner *partneruc.DeletePartnerUseCase
	listPartners  *partneruc.ListPartnersUseCase

	// Operator
	login          *operatoruc.LoginUseCase
	createOperator *operatoruc.CreateOperatorUseCase
}

func (c *Container) newUseCases() *allUseCases {
	r, s, cfg := c.repos, c.svcs, c.cfg
	ucs := &allUseCases{}

	// Every status transition, from webhooks, the sweeper or an operator,
	// goes through the same cadence trigger.
	scheduleCadence := cadenceuc.NewScheduleCadenceUseCase(s.catalog, s.renderer, r.messageRepo, template.NewTemplateData, c.log)
	trigger := cadenceuc.NewTransitionTrigger(scheduleCadence, r.messageRepo, c.log)

	// Webhook
	reconciler := webhookuc.NewReconciler(r.subscriberRepo, r.paymentRepo, trigger, c.log)
	processor := webhookuc.NewProcessEventUseCase(
		s.gateways,
		reconciler,
		r.webhookRepo,
		c.tx,
		webhook.ExponentialRetryPolicy{Initial: cfg.Webhook.RetryInterval, Max: webhookRetryMaxDelay},
		cfg.Webhook.MaxAttempts,
		c.log,
	)
	processor.SetMetrics(c.metrics)

	ucs.ingestWebhook = webhookuc.NewIngestWebhookUseCase(s.gateways, r.webhookRepo, processor, s.locker, cfg.Webhook.LockTTL, c.log)
	ucs.reprocessWebhook = webhookuc.NewReprocessWebhookUseCase(r.webhookRepo, processor, s.locker, c.log)
	ucs.listWebhookEvents = webhookuc.NewListWebhookEventsUseCase(r.webhookRepo, r.subscriberRepo, c.log)
	ucs.getWebhookEvent = webhookuc.NewGetWebhookEventUseCase(r.webhookRepo, c.log)
	ucs.retryWebhooks = webhookuc.NewRetryWebhooksUseCase(r.webhookRepo, processor, s.locker, cfg.Webhook.MaxAttempts, c.log)
	ucs.retryWebhooks.SetMetrics(c.metrics)
	ucs.alertExhaustedWebhooks = webhookuc.NewAlertExhaustedWebhooksUseCase(r.webhookRepo, s.alerts, cfg.Webhook.MaxAttempts, c.log)

	// Cadence
	if s.sender != nil {
		ucs.dispatchCadence = cadenceuc.NewDispatchCadenceUseCase(
			r.messageRepo,
			s.sender,
			c.tx,
			s.locker,
			webhook.ExponentialRetryPolicy{Initial: cadenceRetryInitial, Max: cadenceRetryMaxDelay},
			whatsapp.IsRetryable,
			cfg.Cadence.BatchSize,
			cfg.Cadence.MaxAttempts,
			c.log,
		)
		ucs.dispatchCadence.SetMetrics(c.metrics)
	}
	ucs.listSubscriberMessages = cadenceuc.NewListSubscriberMessagesUseCase(r.subscriberRepo, r.messageRepo, c.log)
	ucs.cancelSubscriberMsgs = cadenceuc.NewCancelSubscriberMessagesUseCase(r.subscriberRepo, r.messageRepo, s.catalog, c.log)

	// Subscriber
	ucs.createSubscriber = subscriberuc.NewCreateSubscriberUseCase(r.subscriberRepo, r.companyRepo, c.tx, c.log)
	ucs.getSubscriber = subscriberuc.NewGetSubscriberUseCase(r.subscriberRepo, r.companyRepo, r.paymentRepo, c.log)
	ucs.listSubscribers = subscriberuc.NewListSubscribersUseCase(r.subscriberRepo, r.companyRepo, c.log)
	ucs.updateSubscriberStatus = subscriberuc.NewUpdateSubscriberStatusUseCase(r.subscriberRepo, r.companyRepo, c.tx, trigger, c.log)
	ucs.updateSubscriberProfile = subscriberuc.NewUpdateSubscriberProfileUseCase(r.subscriberRepo, r.companyRepo, c.log)
	ucs.sweepSubscribers = subscriberuc.NewSweepSubscribersUseCase(r.subscriberRepo, c.tx, trigger, subscriberuc.SweepConfig{
		GraceDays:           cfg.Sweeper.GraceDays,
		InactivateAfterDays: cfg.Sweeper.InactivateAfterDays,
	}, c.log)
	ucs.sweepSubscribers.SetMetrics(c.metrics)

	// Catalog
	ucs.createCompany = companyuc.NewCreateCompanyUseCase(r.companyRepo, c.log)
	ucs.getCompany = companyuc.NewGetCompanyUseCase(r.companyRepo, r.subscriberRepo, c.log)
	ucs.listCompanies = companyuc.NewListCompaniesUseCase(r.companyRepo, c.log)
	ucs.createPartner = partneruc.NewCreatePartnerUseCase(r.partnerRepo, c.log)
	ucs.updatePartner = partneruc.NewUpdatePartnerUseCase(r.partnerRepo, c.log)
	ucs.getPartner = partneruc.NewGetPartnerUseCase(r.partnerRepo, c.log)
	ucs.deletePartner = partneruc.NewDeletePartnerUseCase(r.partnerRepo, c.log)
	ucs.listPartners = partneruc.NewListPartnersUseCase(r.partnerRepo, c.log)

	// Operator
	ucs.login = operatoruc.NewLoginUseCase(r.operatorRepo, s.hasher, s.jwt, c.log)
	ucs.createOperator = operatoruc.NewCreateOperatorUseCase(r.operatorRepo, s.hasher, c.log)

	return ucs
}
