package usecases

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/application/company/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// SeatCounter reports how many subscribers hold a seat of a company.
type SeatCounter interface {
	CountByCompany(ctx context.Context, companyID uint) (int64, error)
}

type CreateCompanyCommand struct {
	Name         string
	CNPJ         string
	ContactEmail string
	ContactPhone string
	SeatLimit    int
}

type CreateCompanyUseCase struct {
	repo   company.Repository
	logger logger.Interface
}

func NewCreateCompanyUseCase(repo company.Repository, logger logger.Interface) *CreateCompanyUseCase {
	return &CreateCompanyUseCase{repo: repo, logger: logger}
}

func (uc *CreateCompanyUseCase) Execute(ctx context.Context, cmd CreateCompanyCommand) (*dto.CompanyDTO, error) {
	c, err := company.NewCompany(cmd.Name, cmd.CNPJ, cmd.ContactEmail, cmd.ContactPhone, cmd.SeatLimit)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := uc.repo.GetByCNPJ(ctx, shared.OnlyDigits(cmd.CNPJ))
	if err != nil {
		uc.logger.Errorw("failed to check company cnpj", "error", err)
		return nil, apperrors.NewInternalError("failed to create company")
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("company CNPJ already registered", existing.SID())
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		if errors.Is(err, company.ErrCNPJExists) {
			return nil, apperrors.NewConflictError("company CNPJ already registered")
		}
		uc.logger.Errorw("failed to create company", "error", err)
		return nil, apperrors.NewInternalError("failed to create company")
	}

	uc.logger.Infow("company created", "sid", c.SID(), "seat_limit", c.SeatLimit())
	return dto.ToCompanyDTO(c), nil
}

type GetCompanyQuery struct {
	SID string
}

type GetCompanyUseCase struct {
	repo   company.Repository
	seats  SeatCounter
	logger logger.Interface
}

func NewGetCompanyUseCase(repo company.Repository, seats SeatCounter, logger logger.Interface) *GetCompanyUseCase {
	return &GetCompanyUseCase{repo: repo, seats: seats, logger: logger}
}

// Execute returns the company with its current seat usage.
func (uc *GetCompanyUseCase) Execute(ctx context.Context, query GetCompanyQuery) (*dto.CompanyDTO, error) {
	c, err := uc.repo.GetBySID(ctx, query.SID)
	if err != nil {
		uc.logger.Errorw("failed to get company", "sid", query.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to get company")
	}
	if c == nil {
		return nil, apperrors.NewNotFoundError("company not found", query.SID)
	}

	out := dto.ToCompanyDTO(c)
	used, err := uc.seats.CountByCompany(ctx, c.ID())
	if err != nil {
		uc.logger.Warnw("failed to count company seats", "sid", c.SID(), "error", err)
		return out, nil
	}
	out.SeatsUsed = &used
	return out, nil
}

type ListCompaniesQuery struct {
	Search   string
	Page     int
	PageSize int
}

type ListCompaniesUseCase struct {
	repo   company.Repository
	logger logger.Interface
}

func NewListCompaniesUseCase(repo company.Repository, logger logger.Interface) *ListCompaniesUseCase {
	return &ListCompaniesUseCase{repo: repo, logger: logger}
}

func (uc *ListCompaniesUseCase) Execute(ctx context.Context, query ListCompaniesQuery) (*dto.ListCompaniesResponse, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	companies, total, err := uc.repo.List(ctx, query.Search, p.Page, p.PageSize)
	if err != nil {
		uc.logger.Errorw("failed to list companies", "error", err)
		return nil, apperrors.NewInternalError("failed to list companies")
	}
	return &dto.ListCompaniesResponse{
		Companies: lo.Map(companies, func(c *company.Company, _ int) *dto.CompanyDTO { return dto.ToCompanyDTO(c) }),
		Total:     total,
		Page:      p.Page,
		PageSize:  p.PageSize,
	}, nil
}
