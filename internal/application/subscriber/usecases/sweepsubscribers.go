package usecases

import (
	"context"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const defaultSweepBatchSize = 200

type SweepResult struct {
	Expired     int `json:"expired"`
	Inactivated int `json:"inactivated"`
	Failed      int `json:"failed"`
}

type SweepConfig struct {
	GraceDays int
	// InactivateAfterDays disables the vencido -> inativo step when zero.
	InactivateAfterDays int
	BatchSize           int
}

// SweepSubscribersUseCase moves subscribers whose coverage lapsed without a
// webhook: ativo past the grace period becomes vencido, and vencido past
// InactivateAfterDays becomes inativo.
type SweepSubscribersUseCase struct {
	subscriberRepo subscriber.Repository
	txManager      db.Transactor
	trigger        CadenceTrigger
	cfg            SweepConfig
	metrics        SweepMetrics
	logger         logger.Interface
}

func NewSweepSubscribersUseCase(
	subscriberRepo subscriber.Repository,
	txManager db.Transactor,
	trigger CadenceTrigger,
	cfg SweepConfig,
	logger logger.Interface,
) *SweepSubscribersUseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultSweepBatchSize
	}
	return &SweepSubscribersUseCase{
		subscriberRepo: subscriberRepo,
		txManager:      txManager,
		trigger:        trigger,
		cfg:            cfg,
		logger:         logger,
	}
}

// SetMetrics sets the metrics recorder (optional dependency injection)
func (uc *SweepSubscribersUseCase) SetMetrics(m SweepMetrics) {
	uc.metrics = m
}

// Execute runs one sweep at the current time and reports how many
// subscribers changed status.
func (uc *SweepSubscribersUseCase) Execute(ctx context.Context) (int, error) {
	res, err := uc.Sweep(ctx, biztime.NowUTC())
	return res.Expired + res.Inactivated, err
}

func (uc *SweepSubscribersUseCase) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	today := biztime.StartOfDayUTC(now)

	expireCutoff := biztime.AddDays(today, -uc.cfg.GraceDays)
	expired, failed, err := uc.sweep(ctx, now, "expire",
		func(ctx context.Context, limit int) ([]*subscriber.Subscriber, error) {
			return uc.subscriberRepo.FindExpirable(ctx, expireCutoff, limit)
		},
		func(s *subscriber.Subscriber) subscriber.Transition { return s.Expire(expireCutoff) },
	)
	res.Expired, res.Failed = expired, failed
	if err != nil {
		return res, err
	}

	if uc.cfg.InactivateAfterDays > 0 {
		inactivateCutoff := biztime.AddDays(today, -uc.cfg.InactivateAfterDays)
		inactivated, failed, err := uc.sweep(ctx, now, "inactivate",
			func(ctx context.Context, limit int) ([]*subscriber.Subscriber, error) {
				return uc.subscriberRepo.FindInactivatable(ctx, inactivateCutoff, limit)
			},
			func(s *subscriber.Subscriber) subscriber.Transition { return s.Inactivate(inactivateCutoff) },
		)
		res.Inactivated = inactivated
		res.Failed += failed
		if err != nil {
			return res, err
		}
	}

	if uc.metrics != nil {
		uc.metrics.RecordSweep(res.Expired, res.Inactivated, now)
	}
	uc.logger.Infow("subscriber sweep completed",
		"expired", res.Expired,
		"inactivated", res.Inactivated,
		"failed", res.Failed,
	)
	return res, nil
}

type findBatch func(ctx context.Context, limit int) ([]*subscriber.Subscriber, error)

// sweep pages through candidates until a batch is empty or holds only rows
// that already failed in this run.
func (uc *SweepSubscribersUseCase) sweep(
	ctx context.Context,
	now time.Time,
	step string,
	find findBatch,
	apply func(*subscriber.Subscriber) subscriber.Transition,
) (changed, failed int, err error) {
	seen := make(map[uint]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return changed, failed, err
		}
		batch, err := find(ctx, uc.cfg.BatchSize)
		if err != nil {
			uc.logger.Errorw("failed to load sweep candidates", "step", step, "error", err)
			return changed, failed, err
		}

		fresh := 0
		for _, sub := range batch {
			if _, ok := seen[sub.ID()]; ok {
				continue
			}
			seen[sub.ID()] = struct{}{}
			fresh++

			ok, err := uc.applyOne(ctx, sub, now, apply)
			if err != nil {
				failed++
				uc.logger.Warnw("sweep skipped subscriber",
					"step", step,
					"sid", sub.SID(),
					"error", err,
				)
				continue
			}
			if ok {
				changed++
			}
		}
		if fresh == 0 || len(batch) < uc.cfg.BatchSize {
			return changed, failed, nil
		}
	}
}

func (uc *SweepSubscribersUseCase) applyOne(
	ctx context.Context,
	sub *subscriber.Subscriber,
	now time.Time,
	apply func(*subscriber.Subscriber) subscriber.Transition,
) (bool, error) {
	t := apply(sub)
	if !t.Applied {
		return false, nil
	}
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriberRepo.Update(txCtx, sub); err != nil {
			return err
		}
		if uc.trigger == nil {
			return nil
		}
		return uc.trigger.OnTransition(txCtx, sub, t, now)
	})
	if err != nil {
		return false, err
	}
	uc.logger.Infow("subscriber status swept",
		"sid", sub.SID(),
		"from", t.From,
		"to", t.To,
	)
	return true, nil
}
