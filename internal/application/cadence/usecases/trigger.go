package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	cadencevo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// TransitionTrigger maps subscriber status changes onto cadences:
//   - first activation starts welcome
//   - entering vencido starts overdue
//   - vencido back to ativo cancels overdue and starts reactivated
//   - entering inativo cancels everything still pending
//
// It is called inside the transaction that persisted the transition, so
// persistence errors are returned and roll the transition back. A cadence
// missing from the catalog or a template that fails to render is logged and
// skipped instead.
type TransitionTrigger struct {
	scheduler   *ScheduleCadenceUseCase
	messageRepo cadence.Repository
	logger      logger.Interface
}

func NewTransitionTrigger(scheduler *ScheduleCadenceUseCase, messageRepo cadence.Repository, logger logger.Interface) *TransitionTrigger {
	return &TransitionTrigger{
		scheduler:   scheduler,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

func (tr *TransitionTrigger) OnTransition(ctx context.Context, sub *subscriber.Subscriber, t subscriber.Transition, at time.Time) error {
	if !t.Applied {
		return nil
	}

	if t.StatusChanged() {
		switch {
		case t.To == vo.StatusInativo:
			return tr.cancel(ctx, sub, nil, cadence.OutcomeInactivated)
		case t.To == vo.StatusVencido:
			if err := tr.schedule(ctx, sub, cadencevo.CadenceOverdue, at); err != nil {
				return err
			}
		case t.From == vo.StatusVencido && t.To == vo.StatusAtivo:
			if err := tr.cancel(ctx, sub, []cadencevo.CadenceName{cadencevo.CadenceOverdue}, cadence.OutcomeReactivated); err != nil {
				return err
			}
			if err := tr.schedule(ctx, sub, cadencevo.CadenceReactivated, at); err != nil {
				return err
			}
		}
	}

	if t.FirstActivation {
		return tr.schedule(ctx, sub, cadencevo.CadenceWelcome, at)
	}
	return nil
}

func (tr *TransitionTrigger) schedule(ctx context.Context, sub *subscriber.Subscriber, name cadencevo.CadenceName, at time.Time) error {
	_, err := tr.scheduler.Schedule(ctx, sub, name, at)
	if err == nil {
		return nil
	}
	if errors.Is(err, cadence.ErrCadenceNotFound) || errors.Is(err, ErrRenderFailed) {
		tr.logger.Errorw("cadence not scheduled", "subscriber_sid", sub.SID(), "cadence", name, "error", err)
		return nil
	}
	return err
}

func (tr *TransitionTrigger) cancel(ctx context.Context, sub *subscriber.Subscriber, names []cadencevo.CadenceName, reason string) error {
	n, err := tr.messageRepo.CancelPending(ctx, sub.ID(), names, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel pending messages: %w", err)
	}
	if n > 0 {
		tr.logger.Infow("pending cadence messages cancelled",
			"subscriber_sid", sub.SID(), "cadences", names, "count", n, "reason", reason)
	}
	return nil
}
