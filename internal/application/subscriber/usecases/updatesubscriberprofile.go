package usecases

import (
	"context"
	"errors"

	"github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// UpdateSubscriberProfileCommand carries optional fields; nil leaves a field as is.
type UpdateSubscriberProfileCommand struct {
	SID          string
	Name         *string
	Email        *string
	Phone        *string
	PlanName     *string
	Amount       *string
	BillingCycle *string
}

type UpdateSubscriberProfileUseCase struct {
	subscriberRepo subscriber.Repository
	companyRepo    company.Repository
	logger         logger.Interface
}

func NewUpdateSubscriberProfileUseCase(
	subscriberRepo subscriber.Repository,
	companyRepo company.Repository,
	logger logger.Interface,
) *UpdateSubscriberProfileUseCase {
	return &UpdateSubscriberProfileUseCase{
		subscriberRepo: subscriberRepo,
		companyRepo:    companyRepo,
		logger:         logger,
	}
}

func (uc *UpdateSubscriberProfileUseCase) Execute(ctx context.Context, cmd UpdateSubscriberProfileCommand) (*dto.SubscriberDTO, error) {
	update := subscriber.ProfileUpdate{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Phone:    cmd.Phone,
		PlanName: cmd.PlanName,
	}
	if cmd.Amount != nil {
		m, err := shared.ParseMoney(*cmd.Amount, shared.CurrencyBRL)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid amount", *cmd.Amount)
		}
		update.Amount = &m
	}
	if cmd.BillingCycle != nil {
		c, err := vo.NewBillingCycle(*cmd.BillingCycle)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid billing cycle", *cmd.BillingCycle)
		}
		update.BillingCycle = &c
	}

	sub, err := loadSubscriber(ctx, uc.subscriberRepo, cmd.SID, uc.logger)
	if err != nil {
		return nil, err
	}
	if err := sub.UpdateProfile(update); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.subscriberRepo.Update(ctx, sub); err != nil {
		if errors.Is(err, subscriber.ErrVersionConflict) {
			return nil, apperrors.NewConflictError("subscriber was modified concurrently, reload and retry")
		}
		uc.logger.Errorw("failed to update subscriber profile", "sid", cmd.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to update subscriber")
	}

	uc.logger.Infow("subscriber profile updated", "sid", sub.SID())
	sids := companySIDs(ctx, uc.companyRepo, []*subscriber.Subscriber{sub}, uc.logger)
	return dto.ToSubscriberDTO(sub, companySIDOf(sub, sids)), nil
}
