package usecases

import (
	"context"
	"errors"

	"github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/db"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type UpdateSubscriberStatusCommand struct {
	SID         string
	Status      string
	OperatorSID string
}

// UpdateSubscriberStatusUseCase is the operator override. The status write and
// the cadence reaction commit together.
type UpdateSubscriberStatusUseCase struct {
	subscriberRepo subscriber.Repository
	companyRepo    company.Repository
	txManager      db.Transactor
	trigger        CadenceTrigger
	logger         logger.Interface
}

func NewUpdateSubscriberStatusUseCase(
	subscriberRepo subscriber.Repository,
	companyRepo company.Repository,
	txManager db.Transactor,
	trigger CadenceTrigger,
	logger logger.Interface,
) *UpdateSubscriberStatusUseCase {
	return &UpdateSubscriberStatusUseCase{
		subscriberRepo: subscriberRepo,
		companyRepo:    companyRepo,
		txManager:      txManager,
		trigger:        trigger,
		logger:         logger,
	}
}

func (uc *UpdateSubscriberStatusUseCase) Execute(ctx context.Context, cmd UpdateSubscriberStatusCommand) (*dto.SubscriberDTO, error) {
	status := vo.SubscriberStatus(cmd.Status)
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", cmd.Status)
	}

	sub, err := loadSubscriber(ctx, uc.subscriberRepo, cmd.SID, uc.logger)
	if err != nil {
		return nil, err
	}

	t, err := sub.SetStatus(status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if !t.Applied {
		return uc.toDTO(ctx, sub), nil
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriberRepo.Update(txCtx, sub); err != nil {
			return err
		}
		if uc.trigger == nil {
			return nil
		}
		return uc.trigger.OnTransition(txCtx, sub, t, biztime.NowUTC())
	})
	if err != nil {
		if errors.Is(err, subscriber.ErrVersionConflict) {
			return nil, apperrors.NewConflictError("subscriber was modified concurrently, reload and retry")
		}
		uc.logger.Errorw("failed to update subscriber status", "sid", cmd.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to update subscriber status")
	}

	uc.logger.Infow("subscriber status overridden",
		"sid", sub.SID(),
		"from", t.From,
		"to", t.To,
		"operator_sid", cmd.OperatorSID,
	)
	return uc.toDTO(ctx, sub), nil
}

func (uc *UpdateSubscriberStatusUseCase) toDTO(ctx context.Context, sub *subscriber.Subscriber) *dto.SubscriberDTO {
	sids := companySIDs(ctx, uc.companyRepo, []*subscriber.Subscriber{sub}, uc.logger)
	return dto.ToSubscriberDTO(sub, companySIDOf(sub, sids))
}
