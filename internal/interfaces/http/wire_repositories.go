package http

import (
	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/operator"
	"github.com/beneficlub/backoffice/internal/domain/partner"
	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/infrastructure/repository"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	subscriberRepo subscriber.Repository
	companyRepo    company.Repository
	partnerRepo    partner.Repository
	paymentRepo    payment.Repository
	webhookRepo    webhook.Repository
	messageRepo    cadence.Repository
	operatorRepo   operator.Repository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscriberRepo: repository.NewSubscriberRepository(db, log),
		companyRepo:    repository.NewCompanyRepository(db, log),
		partnerRepo:    repository.NewPartnerRepository(db, log),
		paymentRepo:    repository.NewPaymentRepository(db, log),
		webhookRepo:    repository.NewWebhookEventRepository(db, log),
		messageRepo:    repository.NewCadenceMessageRepository(db, log),
		operatorRepo:   repository.NewOperatorRepository(db, log),
	}
}
