package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/beneficlub/backoffice/internal/application/partner/dto"
	"github.com/beneficlub/backoffice/internal/domain/partner"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// PartnerInput is shared by create and update. DiscountPercent is a decimal
// string such as "15" or "12.5".
type PartnerInput struct {
	Name               string
	CNPJ               string
	Category           string
	BenefitDescription string
	DiscountPercent    string
	City               string
}

func (in PartnerInput) details() (partner.Details, error) {
	discount := decimal.Zero
	if in.DiscountPercent != "" {
		d, err := decimal.NewFromString(in.DiscountPercent)
		if err != nil {
			return partner.Details{}, apperrors.NewValidationError("invalid discount_percent", in.DiscountPercent)
		}
		discount = d
	}
	return partner.Details{
		Name:               in.Name,
		CNPJ:               in.CNPJ,
		Category:           in.Category,
		BenefitDescription: in.BenefitDescription,
		DiscountPercent:    discount,
		City:               in.City,
	}, nil
}

type CreatePartnerUseCase struct {
	repo   partner.Repository
	logger logger.Interface
}

func NewCreatePartnerUseCase(repo partner.Repository, logger logger.Interface) *CreatePartnerUseCase {
	return &CreatePartnerUseCase{repo: repo, logger: logger}
}

func (uc *CreatePartnerUseCase) Execute(ctx context.Context, in PartnerInput) (*dto.PartnerDTO, error) {
	d, err := in.details()
	if err != nil {
		return nil, err
	}
	p, err := partner.NewPartner(d)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to create partner", "error", err)
		return nil, apperrors.NewInternalError("failed to create partner")
	}
	uc.logger.Infow("partner created", "sid", p.SID(), "category", p.Category())
	return dto.ToPartnerDTO(p), nil
}

type UpdatePartnerCommand struct {
	SID    string
	Input  PartnerInput
	Active bool
}

type UpdatePartnerUseCase struct {
	repo   partner.Repository
	logger logger.Interface
}

func NewUpdatePartnerUseCase(repo partner.Repository, logger logger.Interface) *UpdatePartnerUseCase {
	return &UpdatePartnerUseCase{repo: repo, logger: logger}
}

func (uc *UpdatePartnerUseCase) Execute(ctx context.Context, cmd UpdatePartnerCommand) (*dto.PartnerDTO, error) {
	d, err := cmd.Input.details()
	if err != nil {
		return nil, err
	}
	p, err := loadPartner(ctx, uc.repo, cmd.SID, uc.logger)
	if err != nil {
		return nil, err
	}
	if err := p.Update(d, cmd.Active); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to update partner", "sid", cmd.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to update partner")
	}
	return dto.ToPartnerDTO(p), nil
}

type DeletePartnerUseCase struct {
	repo   partner.Repository
	logger logger.Interface
}

func NewDeletePartnerUseCase(repo partner.Repository, logger logger.Interface) *DeletePartnerUseCase {
	return &DeletePartnerUseCase{repo: repo, logger: logger}
}

func (uc *DeletePartnerUseCase) Execute(ctx context.Context, sid string) error {
	p, err := loadPartner(ctx, uc.repo, sid, uc.logger)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, p.ID()); err != nil {
		uc.logger.Errorw("failed to delete partner", "sid", sid, "error", err)
		return apperrors.NewInternalError("failed to delete partner")
	}
	uc.logger.Infow("partner deleted", "sid", sid)
	return nil
}

type GetPartnerUseCase struct {
	repo   partner.Repository
	logger logger.Interface
}

func NewGetPartnerUseCase(repo partner.Repository, logger logger.Interface) *GetPartnerUseCase {
	return &GetPartnerUseCase{repo: repo, logger: logger}
}

func (uc *GetPartnerUseCase) Execute(ctx context.Context, sid string) (*dto.PartnerDTO, error) {
	p, err := loadPartner(ctx, uc.repo, sid, uc.logger)
	if err != nil {
		return nil, err
	}
	return dto.ToPartnerDTO(p), nil
}

type ListPartnersQuery struct {
	Category string
	City     string
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

type ListPartnersUseCase struct {
	repo   partner.Repository
	logger logger.Interface
}

func NewListPartnersUseCase(repo partner.Repository, logger logger.Interface) *ListPartnersUseCase {
	return &ListPartnersUseCase{repo: repo, logger: logger}
}

func (uc *ListPartnersUseCase) Execute(ctx context.Context, query ListPartnersQuery) (*dto.ListPartnersResponse, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	partners, total, err := uc.repo.List(ctx, partner.ListFilter{
		Category: query.Category,
		City:     query.City,
		Active:   query.Active,
		Search:   query.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list partners", "error", err)
		return nil, apperrors.NewInternalError("failed to list partners")
	}
	return &dto.ListPartnersResponse{
		Partners: dto.ToPartnerDTOList(partners),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

func loadPartner(ctx context.Context, repo partner.Repository, sid string, log logger.Interface) (*partner.Partner, error) {
	p, err := repo.GetBySID(ctx, sid)
	if err != nil {
		log.Errorw("failed to get partner", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to get partner")
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("partner not found", sid)
	}
	return p, nil
}
