package usecases

import (
	"context"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/application/cadence/dto"
	"github.com/beneficlub/backoffice/internal/domain/cadence"
	cadencevo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

type ListSubscriberMessagesQuery struct {
	SubscriberSID string
	Page          int
	PageSize      int
}

type ListSubscriberMessagesUseCase struct {
	subscriberRepo subscriber.Repository
	messageRepo    cadence.Repository
	logger         logger.Interface
}

func NewListSubscriberMessagesUseCase(
	subscriberRepo subscriber.Repository,
	messageRepo cadence.Repository,
	logger logger.Interface,
) *ListSubscriberMessagesUseCase {
	return &ListSubscriberMessagesUseCase{
		subscriberRepo: subscriberRepo,
		messageRepo:    messageRepo,
		logger:         logger,
	}
}

func (uc *ListSubscriberMessagesUseCase) Execute(ctx context.Context, query ListSubscriberMessagesQuery) (*dto.ListMessagesResponse, error) {
	sub, err := loadSubscriber(ctx, uc.subscriberRepo, query.SubscriberSID, uc.logger)
	if err != nil {
		return nil, err
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	msgs, total, err := uc.messageRepo.ListBySubscriber(ctx, sub.ID(), p.Page, p.PageSize)
	if err != nil {
		uc.logger.Errorw("failed to list cadence messages", "subscriber_sid", sub.SID(), "error", err)
		return nil, apperrors.NewInternalError("failed to list messages")
	}

	return &dto.ListMessagesResponse{
		Messages: dto.ToMessageDTOList(msgs),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

type CancelSubscriberMessagesCommand struct {
	SubscriberSID string
	// Cadences limits the cancellation; empty cancels every pending message.
	Cadences []string
}

// CancelSubscriberMessagesUseCase lets an operator stop pending messages.
type CancelSubscriberMessagesUseCase struct {
	subscriberRepo subscriber.Repository
	messageRepo    cadence.Repository
	catalog        cadence.Catalog
	logger         logger.Interface
}

func NewCancelSubscriberMessagesUseCase(
	subscriberRepo subscriber.Repository,
	messageRepo cadence.Repository,
	catalog cadence.Catalog,
	logger logger.Interface,
) *CancelSubscriberMessagesUseCase {
	return &CancelSubscriberMessagesUseCase{
		subscriberRepo: subscriberRepo,
		messageRepo:    messageRepo,
		catalog:        catalog,
		logger:         logger,
	}
}

func (uc *CancelSubscriberMessagesUseCase) Execute(ctx context.Context, cmd CancelSubscriberMessagesCommand) (*dto.CancelMessagesResponse, error) {
	known := uc.catalog.Names()
	names := make([]cadencevo.CadenceName, 0, len(cmd.Cadences))
	for _, raw := range lo.Uniq(cmd.Cadences) {
		name := cadencevo.CadenceName(raw)
		if !lo.Contains(known, name) {
			return nil, apperrors.NewValidationError("unknown cadence", raw)
		}
		names = append(names, name)
	}

	sub, err := loadSubscriber(ctx, uc.subscriberRepo, cmd.SubscriberSID, uc.logger)
	if err != nil {
		return nil, err
	}

	n, err := uc.messageRepo.CancelPending(ctx, sub.ID(), names, cadence.OutcomeOperatorRequest)
	if err != nil {
		uc.logger.Errorw("failed to cancel cadence messages", "subscriber_sid", sub.SID(), "error", err)
		return nil, apperrors.NewInternalError("failed to cancel messages")
	}

	uc.logger.Infow("cadence messages cancelled by operator", "subscriber_sid", sub.SID(), "cadences", names, "count", n)
	return &dto.CancelMessagesResponse{Cancelled: n}, nil
}

func loadSubscriber(ctx context.Context, repo subscriber.Repository, sid string, log logger.Interface) (*subscriber.Subscriber, error) {
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
