package usecases

import (
	"context"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

type ListSubscribersQuery struct {
	Status     string
	Kind       string
	CompanySID string
	Search     string
	Page       int
	PageSize   int
}

type ListSubscribersUseCase struct {
	subscriberRepo subscriber.Repository
	companyRepo    company.Repository
	logger         logger.Interface
}

func NewListSubscribersUseCase(
	subscriberRepo subscriber.Repository,
	companyRepo company.Repository,
	logger logger.Interface,
) *ListSubscribersUseCase {
	return &ListSubscribersUseCase{
		subscriberRepo: subscriberRepo,
		companyRepo:    companyRepo,
		logger:         logger,
	}
}

func (uc *ListSubscribersUseCase) Execute(ctx context.Context, query ListSubscribersQuery) (*dto.ListSubscribersResponse, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := subscriber.ListFilter{
		Search:   query.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	if query.Status != "" {
		status := vo.SubscriberStatus(query.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("invalid status filter", query.Status)
		}
		filter.Status = &status
	}
	if query.Kind != "" {
		kind := vo.Kind(query.Kind)
		if !kind.IsValid() {
			return nil, apperrors.NewValidationError("invalid kind filter", query.Kind)
		}
		filter.Kind = &kind
	}
	if query.CompanySID != "" {
		c, err := uc.companyRepo.GetBySID(ctx, query.CompanySID)
		if err != nil {
			uc.logger.Errorw("failed to load company", "sid", query.CompanySID, "error", err)
			return nil, apperrors.NewInternalError("failed to list subscribers")
		}
		if c == nil {
			return nil, apperrors.NewNotFoundError("company not found", query.CompanySID)
		}
		cid := c.ID()
		filter.CompanyID = &cid
	}

	subs, total, err := uc.subscriberRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list subscribers", "error", err)
		return nil, apperrors.NewInternalError("failed to list subscribers")
	}

	sids := companySIDs(ctx, uc.companyRepo, subs, uc.logger)
	return &dto.ListSubscribersResponse{
		Subscribers: lo.Map(subs, func(s *subscriber.Subscriber, _ int) *dto.SubscriberDTO {
			return dto.ToSubscriberDTO(s, companySIDOf(s, sids))
		}),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
