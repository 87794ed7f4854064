package dto

import (
	"time"

	"github.com/beneficlub/backoffice/internal/domain/company"
)

type CompanyDTO struct {
	SID          string    `json:"sid"`
	Name         string    `json:"name"`
	CNPJ         string    `json:"cnpj"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	SeatLimit    int       `json:"seat_limit"`
	SeatsUsed    *int64    `json:"seats_used,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListCompaniesResponse struct {
	Companies []*CompanyDTO `json:"companies"`
	Total     int64         `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"page_size"`
}

func ToCompanyDTO(c *company.Company) *CompanyDTO {
	if c == nil {
		return nil
	}
	return &CompanyDTO{
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
