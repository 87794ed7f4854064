package usecases

import (
	"context"

	"github.com/beneficlub/backoffice/internal/application/webhook/dto"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type ReprocessWebhookCommand struct {
	SID string
}

// ReprocessWebhookUseCase re-runs a logged event from its stored payload on
// operator request, whatever its current status. Every transition is
// idempotent so replaying a processed event only refreshes its outcome.
type ReprocessWebhookUseCase struct {
	webhookRepo webhook.Repository
	processor   EventProcessor
	locker      webhook.Locker
	logger      logger.Interface
}

func NewReprocessWebhookUseCase(
	webhookRepo webhook.Repository,
	processor EventProcessor,
	locker webhook.Locker,
	logger logger.Interface,
) *ReprocessWebhookUseCase {
	return &ReprocessWebhookUseCase{
		webhookRepo: webhookRepo,
		processor:   processor,
		locker:      locker,
		logger:      logger,
	}
}

func (uc *ReprocessWebhookUseCase) Execute(ctx context.Context, cmd ReprocessWebhookCommand) (*dto.WebhookEventDTO, error) {
	if cmd.SID == "" {
		return nil, apperrors.NewValidationError("webhook event id is required")
	}

	ev, err := uc.webhookRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to load webhook event", "sid", cmd.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to load webhook event")
	}
	if ev == nil {
		return nil, apperrors.NewNotFoundError("webhook event not found", cmd.SID)
	}

	release, err := acquireEventLock(ctx, uc.locker, ev, uc.logger)
	if err != nil {
		return nil, err
	}
	defer release()

	uc.logger.Infow("reprocessing webhook event",
		"sid", ev.SID(), "provider", ev.Provider(), "event_type", ev.EventType(), "status", ev.Status())

	// the outcome, success or failure, is recorded on the event
	if err := uc.processor.Process(ctx, ev, nil); err != nil {
		uc.logger.Warnw("webhook reprocess failed", "sid", ev.SID(), "error", err)
	}
	return dto.ToWebhookEventDTO(ev, false), nil
}

// acquireEventLock takes the event's processing lock. It returns a conflict
// error when another worker holds it.
func acquireEventLock(ctx context.Context, locker webhook.Locker, ev *webhook.Event, log logger.Interface) (func(), error) {
	key := webhook.LockKey(ev.Provider(), ev.EventID())
	acquired, err := locker.Acquire(ctx, key, defaultLockTTL)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to lock webhook event")
	}
	if !acquired {
		return nil, apperrors.NewConflictError("webhook event is being processed", ev.SID())
	}
	return func() {
		if relErr := locker.Release(context.WithoutCancel(ctx), key); relErr != nil {
			log.Warnw("failed to release webhook lock", "key", key, "error", relErr)
		}
	}, nil
}
