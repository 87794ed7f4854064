package usecases

import (
	"context"
	"fmt"

	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const retryBatchSize = 50

// RetryWebhooksUseCase re-runs failed events whose retry time has come.
// Events locked by a concurrent delivery are left for the next tick.
type RetryWebhooksUseCase struct {
	webhookRepo webhook.Repository
	processor   EventProcessor
	locker      webhook.Locker
	maxAttempts int
	metrics     MetricsRecorder // Optional
	logger      logger.Interface
}

func NewRetryWebhooksUseCase(
	webhookRepo webhook.Repository,
	processor EventProcessor,
	locker webhook.Locker,
	maxAttempts int,
	logger logger.Interface,
) *RetryWebhooksUseCase {
	return &RetryWebhooksUseCase{
		webhookRepo: webhookRepo,
		processor:   processor,
		locker:      locker,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// SetMetrics sets the metrics recorder (optional dependency injection)
func (uc *RetryWebhooksUseCase) SetMetrics(m MetricsRecorder) {
	uc.metrics = m
}

// Execute returns how many events reached an outcome on this run.
func (uc *RetryWebhooksUseCase) Execute(ctx context.Context) (int, error) {
	events, err := uc.webhookRepo.ListRetryable(ctx, biztime.NowUTC(), uc.maxAttempts, retryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list retryable webhook events: %w", err)
	}

	recovered := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return recovered, ctx.Err()
		}

		release, err := acquireEventLock(ctx, uc.locker, ev, uc.logger)
		if err != nil {
			if apperrors.IsConflictError(err) {
				continue
			}
			uc.logger.Warnw("skipping webhook retry", "sid", ev.SID(), "error", err)
			continue
		}

		if uc.metrics != nil {
			uc.metrics.RecordWebhookRetry(ev.Provider().String())
		}
		if err := uc.processor.Process(ctx, ev, nil); err == nil {
			recovered++
		}
		release()
	}

	if len(events) > 0 {
		uc.logger.Infow("webhook retry run finished", "candidates", len(events), "recovered", recovered)
	}
	return recovered, nil
}

// AlertExhaustedWebhooksUseCase emails operators once about every event that
// ran out of retries, pointing at the reprocess endpoint.
type AlertExhaustedWebhooksUseCase struct {
	webhookRepo webhook.Repository
	notifier    AlertNotifier
	maxAttempts int
	logger      logger.Interface
}

func NewAlertExhaustedWebhooksUseCase(
	webhookRepo webhook.Repository,
	notifier AlertNotifier,
	maxAttempts int,
	logger logger.Interface,
) *AlertExhaustedWebhooksUseCase {
	return &AlertExhaustedWebhooksUseCase{
		webhookRepo: webhookRepo,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func (uc *AlertExhaustedWebhooksUseCase) Execute(ctx context.Context) (int, error) {
	if uc.notifier == nil {
		return 0, nil
	}

	events, err := uc.webhookRepo.ListExhaustedUnalerted(ctx, uc.maxAttempts, retryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list exhausted webhook events: %w", err)
	}

	alerted := 0
	for _, ev := range events {
		if err := uc.notifier.NotifyWebhookExhausted(ctx, ev); err != nil {
			uc.logger.Errorw("failed to send webhook alert", "sid", ev.SID(), "error", err)
			continue
		}
		ev.MarkAlerted()
		if err := uc.webhookRepo.Update(ctx, ev); err != nil {
			uc.logger.Errorw("failed to mark webhook event alerted", "sid", ev.SID(), "error", err)
			continue
		}
		alerted++
	}
	return alerted, nil
}
