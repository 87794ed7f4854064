package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/db"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type CompanyRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCompanyRepository(db *gorm.DB, logger logger.Interface) company.Repository {
	return &CompanyRepositoryImpl{db: db, logger: logger}
}

func (r *CompanyRepositoryImpl) Create(ctx context.Context, c *company.Company) error {
	model := mappers.CompanyToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return company.ErrCNPJExists
		}
		r.logger.Errorw("failed to create company", "cnpj", model.CNPJ, "error", err)
		return fmt.Errorf("failed to create company: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

func (r *CompanyRepositoryImpl) GetByID(ctx context.Context, id uint) (*company.Company, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CompanyRepositoryImpl) GetBySID(ctx context.Context, sid string) (*company.Company, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *CompanyRepositoryImpl) GetByCNPJ(ctx context.Context, cnpj string) (*company.Company, error) {
	return r.first(ctx, "cnpj = ?", cnpj)
}

func (r *CompanyRepositoryImpl) first(ctx context.Context, query string, arg any) (*company.Company, error) {
	var model models.CompanyModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return mappers.CompanyToDomain(&model), nil
}

func (r *CompanyRepositoryImpl) List(ctx context.Context, search string, page, pageSize int) ([]*company.Company, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.CompanyModel{}).
		Scopes(db.Search(search, "name", "cnpj"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	var list []*models.CompanyModel
	if err := query.Scopes(db.Paginate(page, pageSize)).Order("name ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list companies", "error", err)
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}

	result := make([]*company.Company, 0, len(list))
	for _, m := range list {
		result = append(result, mappers.CompanyToDomain(m))
	}
	return result, total, nil
}
