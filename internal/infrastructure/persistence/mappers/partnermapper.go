package mappers

import (
	"github.com/beneficlub/backoffice/internal/domain/partner"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func PartnerToModel(p *partner.Partner) *models.PartnerModel {
	return &models.PartnerModel{
		ID:                 p.ID(),
		SID:                p.SID(),
		Name:               p.Name(),
		CNPJ:               p.CNPJ(),
		Category:           p.Category(),
		BenefitDescription: p.BenefitDescription(),
		DiscountPercent:    p.DiscountPercent(),
		City:               p.City(),
		Active:             p.IsActive(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

func PartnerToDomain(model *models.PartnerModel) *partner.Partner {
	if model == nil {
		return nil
	}
	return partner.ReconstructPartner(model.ID, model.SID, partner.Details{
		Name:               model.Name,
		CNPJ:               model.CNPJ,
		Category:           model.Category,
		BenefitDescription: model.BenefitDescription,
		DiscountPercent:    model.DiscountPercent,
		City:               model.City,
	}, model.Active, model.CreatedAt, model.UpdatedAt)
}
