package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/partner"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type PartnerRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPartnerRepository(db *gorm.DB, logger logger.Interface) partner.Repository {
	return &PartnerRepositoryImpl{db: db, logger: logger}
}

func (r *PartnerRepositoryImpl) Create(ctx context.Context, p *partner.Partner) error {
	model := mappers.PartnerToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create partner", "name", model.Name, "error", err)
		return fmt.Errorf("failed to create partner: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

func (r *PartnerRepositoryImpl) Update(ctx context.Context, p *partner.Partner) error {
	model := mappers.PartnerToModel(p)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PartnerModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":                model.Name,
			"cnpj":                model.CNPJ,
			"category":            model.Category,
			"benefit_description": model.BenefitDescription,
			"discount_percent":    model.DiscountPercent,
			"city":                model.City,
			"active":              model.Active,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update partner", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update partner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return partner.ErrPartnerNotFound
	}
	return nil
}

// Delete is a soft delete.
func (r *PartnerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.PartnerModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete partner", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete partner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return partner.ErrPartnerNotFound
	}
	return nil
}

func (r *PartnerRepositoryImpl) GetBySID(ctx context.Context, sid string) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return mappers.PartnerToDomain(&model), nil
}

func (r *PartnerRepositoryImpl) List(ctx context.Context, filter partner.ListFilter) ([]*partner.Partner, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PartnerModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	query = query.Scopes(db.Search(filter.Search, "name", "benefit_description"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count partners: %w", err)
	}

	var list []*models.PartnerModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Order("name ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list partners", "error", err)
		return nil, 0, fmt.Errorf("failed to list partners: %w", err)
	}

	result := make([]*partner.Partner, 0, len(list))
	for _, m := range list {
		result = append(result, mappers.PartnerToDomain(m))
	}
	return result, total, nil
}
