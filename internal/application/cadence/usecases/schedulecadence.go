package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// ErrRenderFailed marks a step template that cannot be rendered for a subscriber.
var ErrRenderFailed = errors.New("cadence template failed to render")

// ScheduleCadenceUseCase lays out a cadence run for a subscriber. A
// subscriber has at most one pending run per cadence.
type ScheduleCadenceUseCase struct {
	catalog      cadence.Catalog
	renderer     cadence.Renderer
	messageRepo  cadence.Repository
	templateData TemplateDataFunc
	logger       logger.Interface
}

func NewScheduleCadenceUseCase(
	catalog cadence.Catalog,
	renderer cadence.Renderer,
	messageRepo cadence.Repository,
	templateData TemplateDataFunc,
	logger logger.Interface,
) *ScheduleCadenceUseCase {
	return &ScheduleCadenceUseCase{
		catalog:      catalog,
		renderer:     renderer,
		messageRepo:  messageRepo,
		templateData: templateData,
		logger:       logger,
	}
}

// Schedule returns how many messages were created, zero when a run of the
// same cadence is still pending.
func (uc *ScheduleCadenceUseCase) Schedule(ctx context.Context, sub *subscriber.Subscriber, name vo.CadenceName, trigger time.Time) (int, error) {
	pending, err := uc.messageRepo.HasPendingRun(ctx, sub.ID(), name)
	if err != nil {
		return 0, fmt.Errorf("failed to check pending %s run: %w", name, err)
	}
	if pending {
		uc.logger.Debugw("cadence already running", "subscriber_sid", sub.SID(), "cadence", name)
		return 0, nil
	}

	c, err := uc.catalog.Get(name)
	if err != nil {
		return 0, err
	}

	data := uc.templateData(sub.Name(), sub.PlanName(), sub.Amount(), sub.ExpiredAt(), sub.NextDueDate())
	bodies := make([]string, 0, len(c.Steps))
	for i, step := range c.Steps {
		body, err := uc.renderer.Render(step.Template, data)
		if err != nil {
			return 0, fmt.Errorf("%w: cadence %s step %d: %v", ErrRenderFailed, name, i, err)
		}
		bodies = append(bodies, body)
	}

	msgs, err := cadence.PlanRun(sub.ID(), c, trigger, sub.Phone(), bodies)
	if err != nil {
		return 0, err
	}
	if err := uc.messageRepo.CreateBatch(ctx, msgs); err != nil {
		return 0, fmt.Errorf("failed to persist %s run: %w", name, err)
	}

	uc.logger.Infow("cadence scheduled",
		"subscriber_sid", sub.SID(),
		"cadence", name,
		"steps", len(msgs),
		"run_id", msgs[0].RunID(),
		"first_send_at", msgs[0].SendAt(),
		"has_phone", sub.Phone() != "",
	)
	return len(msgs), nil
}
