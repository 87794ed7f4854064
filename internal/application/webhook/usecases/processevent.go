package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/beneficlub/backoffice/internal/application/webhook/gateway"
	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// ProcessEventUseCase runs one logged event through the reconciler and
// records the outcome on the log row. The subscriber changes and the
// processed status commit together.
type ProcessEventUseCase struct {
	gateways    GatewayResolver
	reconciler  *Reconciler
	webhookRepo webhook.Repository
	txManager   db.Transactor
	retryPolicy webhook.RetryPolicy
	maxAttempts int
	metrics     MetricsRecorder // Optional
	logger      logger.Interface
}

func NewProcessEventUseCase(
	gateways GatewayResolver,
	reconciler *Reconciler,
	webhookRepo webhook.Repository,
	txManager db.Transactor,
	retryPolicy webhook.RetryPolicy,
	maxAttempts int,
	logger logger.Interface,
) *ProcessEventUseCase {
	return &ProcessEventUseCase{
		gateways:    gateways,
		reconciler:  reconciler,
		webhookRepo: webhookRepo,
		txManager:   txManager,
		retryPolicy: retryPolicy,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// SetMetrics sets the metrics recorder (optional dependency injection)
func (uc *ProcessEventUseCase) SetMetrics(m MetricsRecorder) {
	uc.metrics = m
}

// Process reconciles ev. A nil n re-parses the stored payload. The returned
// error is the reconciliation failure, already recorded on ev.
func (uc *ProcessEventUseCase) Process(ctx context.Context, ev *webhook.Event, n *gateway.Notification) error {
	start := time.Now()

	ev.StartAttempt()
	if err := uc.webhookRepo.Update(ctx, ev); err != nil {
		return fmt.Errorf("failed to mark webhook event processing: %w", err)
	}

	if n == nil {
		parsed, err := uc.parse(ev)
		if err != nil {
			// a payload that does not parse will not parse on retry either
			uc.fail(ctx, ev, err, false, start)
			return err
		}
		n = parsed
	}
	if n.OccurredAt.IsZero() {
		// payloads without a timestamp are ordered by when they were logged
		stamped := *n
		stamped.OccurredAt = ev.OccurredAt()
		n = &stamped
	}

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		result, err := uc.reconciler.Reconcile(txCtx, ev.Provider(), n)
		if err != nil {
			return err
		}
		if result.Ignored {
			ev.MarkIgnored(result.Outcome, result.SubscriberID)
		} else {
			ev.MarkProcessed(result.Outcome, result.SubscriberID)
		}
		return uc.webhookRepo.Update(txCtx, ev)
	})
	if err != nil {
		uc.fail(ctx, ev, err, true, start)
		return err
	}

	uc.record(ev, start)
	return nil
}

func (uc *ProcessEventUseCase) parse(ev *webhook.Event) (*gateway.Notification, error) {
	gw, err := uc.gateways.Get(ev.Provider())
	if err != nil {
		return nil, err
	}
	return gw.Parse(ev.Payload())
}

func (uc *ProcessEventUseCase) fail(ctx context.Context, ev *webhook.Event, cause error, retryable bool, start time.Time) {
	var next *time.Time
	if retryable && ev.Attempts() < uc.maxAttempts {
		at := biztime.NowUTC().Add(uc.retryPolicy.NextDelay(ev.Attempts()))
		next = &at
	}
	ev.MarkFailed(cause, next)

	uc.logger.Errorw("webhook processing failed",
		"provider", ev.Provider(),
		"event_id", ev.EventID(),
		"event_sid", ev.SID(),
		"attempts", ev.Attempts(),
		"next_attempt_at", next,
		"error", cause,
	)

	if err := uc.webhookRepo.Update(ctx, ev); err != nil {
		uc.logger.Errorw("failed to record webhook failure", "event_sid", ev.SID(), "error", err)
	}
	uc.record(ev, start)
}

func (uc *ProcessEventUseCase) record(ev *webhook.Event, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.RecordWebhook(ev.Provider().String(), ev.Status().String(), time.Since(start))
	}
}
