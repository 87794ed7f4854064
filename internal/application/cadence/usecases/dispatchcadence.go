package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const (
	defaultDispatchBatch       = 100
	defaultDispatchMaxAttempts = 5
	dispatchConcurrency        = 4
	dispatchLockTTL            = time.Minute
)

// DispatchCadenceUseCase sends due cadence messages. A message is due once
// its send time has passed and every earlier step of its run is terminal, so
// at most one message per run is in flight and runs can be sent in parallel.
type DispatchCadenceUseCase struct {
	messageRepo cadence.Repository
	sender      Sender
	txManager   db.Transactor
	locker      Locker
	retryPolicy RetryPolicy
	isRetryable func(error) bool
	batchSize   int
	maxAttempts int
	metrics     MetricsRecorder // Optional
	logger      logger.Interface
}

func NewDispatchCadenceUseCase(
	messageRepo cadence.Repository,
	sender Sender,
	txManager db.Transactor,
	locker Locker,
	retryPolicy RetryPolicy,
	isRetryable func(error) bool,
	batchSize int,
	maxAttempts int,
	logger logger.Interface,
) *DispatchCadenceUseCase {
	if batchSize <= 0 {
		batchSize = defaultDispatchBatch
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultDispatchMaxAttempts
	}
	if isRetryable == nil {
		isRetryable = func(error) bool { return true }
	}
	return &DispatchCadenceUseCase{
		messageRepo: messageRepo,
		sender:      sender,
		txManager:   txManager,
		locker:      locker,
		retryPolicy: retryPolicy,
		isRetryable: isRetryable,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// SetMetrics sets the metrics recorder (optional dependency injection)
func (uc *DispatchCadenceUseCase) SetMetrics(m MetricsRecorder) {
	uc.metrics = m
}

// Execute sends one batch of due messages and returns how many were sent.
func (uc *DispatchCadenceUseCase) Execute(ctx context.Context) (int, error) {
	msgs, err := uc.messageRepo.ListDue(ctx, biztime.NowUTC(), uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due cadence messages: %w", err)
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	var sent atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)
	for _, m := range msgs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			ok, err := uc.deliver(gctx, m)
			if err != nil {
				uc.logger.Errorw("failed to record cadence delivery", "message_sid", m.SID(), "error", err)
				return nil
			}
			if ok {
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	uc.logger.Infow("cadence dispatch finished", "due", len(msgs), "sent", sent.Load())
	return int(sent.Load()), nil
}

// deliver sends m and records the attempt. When m reaches a terminal state
// the next step of its run is re-anchored on m's completion. A message
// cancelled or handled elsewhere after it was listed is left alone.
func (uc *DispatchCadenceUseCase) deliver(ctx context.Context, listed *cadence.Message) (bool, error) {
	key := "cadence:lock:" + listed.SID()
	if uc.locker != nil {
		acquired, err := uc.locker.Acquire(ctx, key, dispatchLockTTL)
		if err != nil {
			uc.logger.Warnw("cadence lock unavailable, sending unlocked", "message_sid", listed.SID(), "error", err)
		} else if !acquired {
			return false, nil
		} else {
			defer func() {
				if relErr := uc.locker.Release(context.WithoutCancel(ctx), key); relErr != nil {
					uc.logger.Warnw("failed to release cadence lock", "key", key, "error", relErr)
				}
			}()
		}
	}

	m, err := uc.messageRepo.GetByID(ctx, listed.ID())
	if err != nil {
		return false, err
	}
	if m == nil || !m.IsPending() || m.SendAt().After(biztime.NowUTC()) {
		uc.logger.Debugw("cadence message no longer due, skipped", "message_sid", listed.SID())
		return false, nil
	}

	providerID, sendErr := uc.sender.Send(ctx, m.Phone(), m.Body())
	now := biztime.NowUTC()
	if sendErr != nil {
		var retryAt *time.Time
		attempt := m.Attempts() + 1
		if uc.isRetryable(sendErr) && attempt < uc.maxAttempts {
			at := now.Add(uc.retryPolicy.NextDelay(attempt))
			retryAt = &at
		}
		m.MarkAttemptFailed(sendErr, retryAt, now)
		uc.logger.Warnw("cadence message not delivered",
			"message_sid", m.SID(),
			"cadence", m.Cadence(),
			"step", m.StepIndex(),
			"attempt", attempt,
			"retry_at", retryAt,
			"error", sendErr,
		)
	} else {
		m.MarkSent(providerID, now)
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.messageRepo.Update(txCtx, m); err != nil {
			return err
		}
		if m.IsPending() || m.CompletedAt() == nil {
			return nil
		}
		next, err := uc.messageRepo.NextInRun(txCtx, m.RunID(), m.StepIndex())
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		next.Reanchor(*m.CompletedAt())
		if err := uc.messageRepo.Update(txCtx, next); err != nil && !errors.Is(err, cadence.ErrMessageSuperseded) {
			return err
		}
		return nil
	})
	if errors.Is(err, cadence.ErrMessageSuperseded) {
		uc.logger.Infow("cadence message superseded during send",
			"message_sid", m.SID(),
			"provider_message_id", providerID,
			"send_error", sendErr,
		)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if uc.metrics != nil {
		status := m.Status().String()
		if m.IsPending() {
			status = "retry"
		}
		uc.metrics.RecordCadenceMessage(m.Cadence().String(), status)
	}
	return sendErr == nil, nil
}
