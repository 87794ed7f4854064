package mappers

import (
	"github.com/beneficlub/backoffice/internal/domain/operator"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
)

func OperatorToModel(o *operator.Operator) *models.OperatorModel {
	return &models.OperatorModel{
		ID:                  o.ID(),
		SID:                 o.SID(),
		Email:               o.Email(),
		Name:                o.Name(),
		PasswordHash:        o.PasswordHash(),
		Active:              o.IsActive(),
		FailedLoginAttempts: o.FailedLoginAttempts(),
		LockedUntil:         o.LockedUntil(),
		LastLoginAt:         o.LastLoginAt(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
	}
}

func OperatorToDomain(model *models.OperatorModel) *operator.Operator {
	if model == nil {
		return nil
	}
	return operator.ReconstructOperatorWithParams(operator.ReconstructParams{
		ID:                  model.ID,
		SID:                 model.SID,
		Email:               model.Email,
		Name:                model.Name,
		PasswordHash:        model.PasswordHash,
		Active:              model.Active,
		FailedLoginAttempts: model.FailedLoginAttempts,
		LockedUntil:         model.LockedUntil,
		LastLoginAt:         model.LastLoginAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	})
}
