package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/domain/partner"
)

type PartnerDTO struct {
	SID                string    `json:"sid"`
	Name               string    `json:"name"`
	CNPJ               string    `json:"cnpj,omitempty"`
	Category           string    `json:"category,omitempty"`
	BenefitDescription string    `json:"benefit_description,omitempty"`
	DiscountPercent    string    `json:"discount_percent"`
	City               string    `json:"city,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ListPartnersResponse struct {
	Partners []*PartnerDTO `json:"partners"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

func ToPartnerDTO(p *partner.Partner) *PartnerDTO {
	if p == nil {
		return nil
	}
	return &PartnerDTO{
		SID:                p.SID(),
		Name:               p.Name(),
		CNPJ:               p.CNPJ(),
		Category:           p.Category(),
		BenefitDescription: p.BenefitDescription(),
		DiscountPercent:    p.DiscountPercent().StringFixed(2),
		City:               p.City(),
		Active:             p.IsActive(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

func ToPartnerDTOList(partners []*partner.Partner) []*PartnerDTO {
	return lo.Map(partners, func(p *partner.Partner, _ int) *PartnerDTO { return ToPartnerDTO(p) })
}
