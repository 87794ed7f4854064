package usecases

import (
	"context"
	"time"

	"github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// CadenceTrigger is notified of every applied status transition inside the
// transaction that persisted it.
type CadenceTrigger interface {
	OnTransition(ctx context.Context, sub *subscriber.Subscriber, t subscriber.Transition, at time.Time) error
}

// SweepMetrics is optional. A nil recorder records nothing.
type SweepMetrics interface {
	RecordSweep(expired, inactivated int, at time.Time)
}

type CreateSubscriberExecutor interface {
	Execute(ctx context.Context, cmd CreateSubscriberCommand) (*dto.SubscriberDTO, error)
}

type GetSubscriberExecutor interface {
	Execute(ctx context.Context, query GetSubscriberQuery) (*dto.SubscriberDTO, error)
}

type ListSubscribersExecutor interface {
	Execute(ctx context.Context, query ListSubscribersQuery) (*dto.ListSubscribersResponse, error)
}

type UpdateSubscriberStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateSubscriberStatusCommand) (*dto.SubscriberDTO, error)
}

type UpdateSubscriberProfileExecutor interface {
	Execute(ctx context.Context, cmd UpdateSubscriberProfileCommand) (*dto.SubscriberDTO, error)
}

// companySIDs resolves the public ids of the companies subscribers belong to.
func companySIDs(ctx context.Context, repo company.Repository, subs []*subscriber.Subscriber, log logger.Interface) map[uint]string {
	out := make(map[uint]string)
	for _, s := range subs {
		cid := s.CompanyID()
		if cid == nil {
			continue
		}
		if _, ok := out[*cid]; ok {
			continue
		}
		c, err := repo.GetByID(ctx, *cid)
		if err != nil || c == nil {
			log.Warnw("failed to resolve subscriber company", "company_id", *cid, "error", err)
			out[*cid] = ""
			continue
		}
		out[*cid] = c.SID()
	}
	return out
}

func companySIDOf(s *subscriber.Subscriber, sids map[uint]string) string {
	if s.CompanyID() == nil {
		return ""
	}
	return sids[*s.CompanyID()]
}
