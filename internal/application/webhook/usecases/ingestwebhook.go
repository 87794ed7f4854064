package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beneficlub/backoffice/internal/application/webhook/dto"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const defaultLockTTL = 2 * time.Minute

type IngestWebhookCommand struct {
	Provider shared.Provider
	Headers  http.Header
	Payload  []byte
}

// IngestWebhookUseCase authenticates a gateway delivery, logs it and
// reconciles it once. Redeliveries of an event that already reached an
// outcome are acknowledged without side effects.
type IngestWebhookUseCase struct {
	gateways    GatewayResolver
	webhookRepo webhook.Repository
	processor   EventProcessor
	locker      webhook.Locker
	lockTTL     time.Duration
	logger      logger.Interface
}

func NewIngestWebhookUseCase(
	gateways GatewayResolver,
	webhookRepo webhook.Repository,
	processor EventProcessor,
	locker webhook.Locker,
	lockTTL time.Duration,
	logger logger.Interface,
) *IngestWebhookUseCase {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &IngestWebhookUseCase{
		gateways:    gateways,
		webhookRepo: webhookRepo,
		processor:   processor,
		locker:      locker,
		lockTTL:     lockTTL,
		logger:      logger,
	}
}

func (uc *IngestWebhookUseCase) Execute(ctx context.Context, cmd IngestWebhookCommand) (*dto.IngestResult, error) {
	gw, err := uc.gateways.Get(cmd.Provider)
	if err != nil {
		return nil, apperrors.NewNotFoundError("unknown webhook provider", string(cmd.Provider))
	}

	if err := gw.Verify(cmd.Headers, cmd.Payload); err != nil {
		uc.logger.Warnw("rejected webhook delivery", "provider", cmd.Provider, "error", err)
		return nil, apperrors.NewUnauthorizedError("invalid webhook credentials")
	}

	n, err := gw.Parse(cmd.Payload)
	if err != nil {
		uc.logger.Warnw("malformed webhook payload", "provider", cmd.Provider, "error", err)
		return nil, apperrors.NewBadRequestError("malformed webhook payload", err.Error())
	}

	ev, err := webhook.NewEvent(cmd.Provider, n.EventID, n.EventType, cmd.Payload, n.OccurredAt)
	if err != nil {
		return nil, apperrors.NewBadRequestError("malformed webhook payload", err.Error())
	}

	if err := uc.webhookRepo.Create(ctx, ev); err != nil {
		if !errors.Is(err, webhook.ErrDuplicateEvent) {
			uc.logger.Errorw("failed to log webhook event", "provider", cmd.Provider, "event_id", n.EventID, "error", err)
			return nil, apperrors.NewInternalError("failed to record webhook event")
		}

		existing, getErr := uc.webhookRepo.GetByEventID(ctx, cmd.Provider, n.EventID)
		if getErr != nil || existing == nil {
			uc.logger.Errorw("failed to load duplicate webhook event", "provider", cmd.Provider, "event_id", n.EventID, "error", getErr)
			return nil, apperrors.NewInternalError("failed to record webhook event")
		}
		if !existing.NeedsProcessing(biztime.NowUTC(), uc.lockTTL) {
			uc.logger.Debugw("duplicate webhook delivery acknowledged",
				"provider", cmd.Provider, "event_id", n.EventID, "status", existing.Status())
			return &dto.IngestResult{
				EventSID:  existing.SID(),
				Status:    existing.Status().String(),
				Outcome:   existing.Outcome(),
				Duplicate: true,
			}, nil
		}
		ev = existing
	}

	key := webhook.LockKey(cmd.Provider, n.EventID)
	acquired, err := uc.locker.Acquire(ctx, key, uc.lockTTL)
	if err != nil {
		// the unique (provider, event_id) row still guards against double inserts
		uc.logger.Warnw("webhook lock unavailable, processing unlocked", "key", key, "error", err)
	} else if !acquired {
		return &dto.IngestResult{EventSID: ev.SID(), Status: ev.Status().String(), InProgress: true}, nil
	}
	defer func() {
		if relErr := uc.locker.Release(context.WithoutCancel(ctx), key); relErr != nil {
			uc.logger.Warnw("failed to release webhook lock", "key", key, "error", relErr)
		}
	}()

	if err := uc.processor.Process(ctx, ev, n); err != nil {
		return nil, apperrors.NewInternalError("webhook processing failed")
	}

	return &dto.IngestResult{
		EventSID: ev.SID(),
		Status:   ev.Status().String(),
		Outcome:  ev.Outcome(),
	}, nil
}
