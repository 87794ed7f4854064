package handlers

import (
	"context"

	cadencedto "github.com/beneficlub/backoffice/internal/application/cadence/dto"
	cadenceuc "github.com/beneficlub/backoffice/internal/application/cadence/usecases"
	companydto "github.com/beneficlub/backoffice/internal/application/company/dto"
	companyuc "github.com/beneficlub/backoffice/internal/application/company/usecases"
	operatordto "github.com/beneficlub/backoffice/internal/application/operator/dto"
	operatoruc "github.com/beneficlub/backoffice/internal/application/operator/usecases"
	partnerdto "github.com/beneficlub/backoffice/internal/application/partner/dto"
	partneruc "github.com/beneficlub/backoffice/internal/application/partner/usecases"
	subscriberdto "github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	subscriberuc "github.com/beneficlub/backoffice/internal/application/subscriber/usecases"
	webhookdto "github.com/beneficlub/backoffice/internal/application/webhook/dto"
	webhookuc "github.com/beneficlub/backoffice/internal/application/webhook/usecases"
)

// Use case interfaces for WebhookHandler

type ingestWebhookUseCase interface {
	Execute(ctx context.Context, cmd webhookuc.IngestWebhookCommand) (*webhookdto.IngestResult, error)
}

type listWebhookEventsUseCase interface {
	Execute(ctx context.Context, query webhookuc.ListWebhookEventsQuery) (*webhookdto.ListWebhookEventsResponse, error)
}

type getWebhookEventUseCase interface {
	Execute(ctx context.Context, query webhookuc.GetWebhookEventQuery) (*webhookdto.WebhookEventDTO, error)
}

type reprocessWebhookUseCase interface {
	Execute(ctx context.Context, cmd webhookuc.ReprocessWebhookCommand) (*webhookdto.WebhookEventDTO, error)
}

// Use case interfaces for SubscriberHandler

type createSubscriberUseCase interface {
	Execute(ctx context.Context, cmd subscriberuc.CreateSubscriberCommand) (*subscriberdto.SubscriberDTO, error)
}

type getSubscriberUseCase interface {
	Execute(ctx context.Context, query subscriberuc.GetSubscriberQuery) (*subscriberdto.SubscriberDTO, error)
}

type listSubscribersUseCase interface {
	Execute(ctx context.Context, query subscriberuc.ListSubscribersQuery) (*subscriberdto.ListSubscribersResponse, error)
}

type updateSubscriberStatusUseCase interface {
	Execute(ctx context.Context, cmd subscriberuc.UpdateSubscriberStatusCommand) (*subscriberdto.SubscriberDTO, error)
}

type updateSubscriberProfileUseCase interface {
	Execute(ctx context.Context, cmd subscriberuc.UpdateSubscriberProfileCommand) (*subscriberdto.SubscriberDTO, error)
}

type listSubscriberMessagesUseCase interface {
	Execute(ctx context.Context, query cadenceuc.ListSubscriberMessagesQuery) (*cadencedto.ListMessagesResponse, error)
}

type cancelSubscriberMessagesUseCase interface {
	Execute(ctx context.Context, cmd cadenceuc.CancelSubscriberMessagesCommand) (*cadencedto.CancelMessagesResponse, error)
}

// Use case interfaces for CompanyHandler

type createCompanyUseCase interface {
	Execute(ctx context.Context, cmd companyuc.CreateCompanyCommand) (*companydto.CompanyDTO, error)
}

type getCompanyUseCase interface {
	Execute(ctx context.Context, query companyuc.GetCompanyQuery) (*companydto.CompanyDTO, error)
}

type listCompaniesUseCase interface {
	Execute(ctx context.Context, query companyuc.ListCompaniesQuery) (*companydto.ListCompaniesResponse, error)
}

// Use case interfaces for PartnerHandler

type createPartnerUseCase interface {
	Execute(ctx context.Context, in partneruc.PartnerInput) (*partnerdto.PartnerDTO, error)
}

type updatePartnerUseCase interface {
	Execute(ctx context.Context, cmd partneruc.UpdatePartnerCommand) (*partnerdto.PartnerDTO, error)
}

type getPartnerUseCase interface {
	Execute(ctx context.Context, sid string) (*partnerdto.PartnerDTO, error)
}

type deletePartnerUseCase interface {
	Execute(ctx context.Context, sid string) error
}

type listPartnersUseCase interface {
	Execute(ctx context.Context, query partneruc.ListPartnersQuery) (*partnerdto.ListPartnersResponse, error)
}

// Use case interfaces for AuthHandler

type loginUseCase interface {
	Execute(ctx context.Context, cmd operatoruc.LoginCommand) (*operatordto.LoginResponse, error)
}
