package usecases

import (
	"context"

	"github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/payment"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const recentPaymentsLimit = 12

type GetSubscriberQuery struct {
	SID string
}

type GetSubscriberUseCase struct {
	subscriberRepo subscriber.Repository
	companyRepo    company.Repository
	paymentRepo    payment.Repository
	logger         logger.Interface
}

func NewGetSubscriberUseCase(
	subscriberRepo subscriber.Repository,
	companyRepo company.Repository,
	paymentRepo payment.Repository,
	logger logger.Interface,
) *GetSubscriberUseCase {
	return &GetSubscriberUseCase{
		subscriberRepo: subscriberRepo,
		companyRepo:    companyRepo,
		paymentRepo:    paymentRepo,
		logger:         logger,
	}
}

// Execute returns the subscriber with its most recent payments.
func (uc *GetSubscriberUseCase) Execute(ctx context.Context, query GetSubscriberQuery) (*dto.SubscriberDTO, error) {
	sub, err := loadSubscriber(ctx, uc.subscriberRepo, query.SID, uc.logger)
	if err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListBySubscriber(ctx, sub.ID(), recentPaymentsLimit)
	if err != nil {
		uc.logger.Errorw("failed to list subscriber payments", "sid", sub.SID(), "error", err)
		return nil, apperrors.NewInternalError("failed to get subscriber")
	}

	sids := companySIDs(ctx, uc.companyRepo, []*subscriber.Subscriber{sub}, uc.logger)
	out := dto.ToSubscriberDTO(sub, companySIDOf(sub, sids))
	out.Payments = dto.ToPaymentDTOList(payments)
	return out, nil
}

func loadSubscriber(ctx context.Context, repo subscriber.Repository, sid string, log logger.Interface) (*subscriber.Subscriber, error) {
	if sid == "" {
		return nil, apperrors.NewValidationError("subscriber sid is required")
	}
	sub, err := repo.GetBySID(ctx, sid)
	if err != nil {
		log.Errorw("failed to load subscriber", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to load subscriber")
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscriber not found", sid)
	}
	return sub, nil
}
