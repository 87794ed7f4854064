package dto

import (
	"time"

	"github.com/beneficlub/backoffice/internal/domain/operator"
)

type OperatorDTO struct {
	SID         string     `json:"sid"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	Operator    *OperatorDTO `json:"operator"`
}

func ToOperatorDTO(o *operator.Operator) *OperatorDTO {
	if o == nil {
		return nil
	}
	return &OperatorDTO{
		SID:         o.SID(),
		Email:       o.Email(),
		Name:        o.Name(),
		Active:      o.IsActive(),
		LastLoginAt: o.LastLoginAt(),
		CreatedAt:   o.CreatedAt(),
	}
}
