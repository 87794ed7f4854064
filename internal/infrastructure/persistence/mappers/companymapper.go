package mappers

import (
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func CompanyToModel(c *company.Company) *models.CompanyModel {
	return &models.CompanyModel{
		ID:           c.ID(),
		SID:          c.SID(),
		Name:         c.Name(),
		CNPJ:         c.CNPJ(),
		ContactEmail: c.ContactEmail(),
		ContactPhone: c.ContactPhone(),
		SeatLimit:    c.SeatLimit(),
		Active:       c.IsActive(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}

func CompanyToDomain(model *models.CompanyModel) *company.Company {
	if model == nil {
		return nil
	}
	return company.ReconstructCompany(
		model.ID, model.SID, model.Name, model.CNPJ,
		model.ContactEmail, model.ContactPhone,
		model.SeatLimit, model.Active, model.CreatedAt, model.UpdatedAt,
	)
}
