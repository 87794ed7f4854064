package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/operator"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/db"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type OperatorRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewOperatorRepository(db *gorm.DB, logger logger.Interface) operator.Repository {
	return &OperatorRepositoryImpl{db: db, logger: logger}
}

func (r *OperatorRepositoryImpl) Create(ctx context.Context, o *operator.Operator) error {
	model := mappers.OperatorToModel(o)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return operator.ErrEmailExists
		}
		r.logger.Errorw("failed to create operator", "error", err)
		return fmt.Errorf("failed to create operator: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

func (r *OperatorRepositoryImpl) Update(ctx context.Context, o *operator.Operator) error {
	model := mappers.OperatorToModel(o)
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.OperatorModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":                  model.Name,
			"password_hash":         model.PasswordHash,
			"active":                model.Active,
			"failed_login_attempts": model.FailedLoginAttempts,
			"locked_until":          model.LockedUntil,
			"last_login_at":         model.LastLoginAt,
			"updated_at":            model.UpdatedAt,
		}).Error; err != nil {
		r.logger.Errorw("failed to update operator", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update operator: %w", err)
	}
	return nil
}

func (r *OperatorRepositoryImpl) GetByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *OperatorRepositoryImpl) GetBySID(ctx context.Context, sid string) (*operator.Operator, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *OperatorRepositoryImpl) first(ctx context.Context, query string, arg any) (*operator.Operator, error) {
	var model models.OperatorModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return mappers.OperatorToDomain(&model), nil
}
