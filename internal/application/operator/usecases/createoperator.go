package usecases

import (
	"context"
	"errors"

	"github.com/beneficlub/backoffice/internal/application/operator/dto"
	"github.com/beneficlub/backoffice/internal/domain/operator"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type CreateOperatorCommand struct {
	Email    string
	Name     string
	Password string
}

// CreateOperatorUseCase seeds back-office accounts from the CLI.
type CreateOperatorUseCase struct {
	repo   operator.Repository
	hasher operator.PasswordHasher
	logger logger.Interface
}

func NewCreateOperatorUseCase(repo operator.Repository, hasher operator.PasswordHasher, logger logger.Interface) *CreateOperatorUseCase {
	return &CreateOperatorUseCase{repo: repo, hasher: hasher, logger: logger}
}

func (uc *CreateOperatorUseCase) Execute(ctx context.Context, cmd CreateOperatorCommand) (*dto.OperatorDTO, error) {
	op, err := operator.NewOperator(cmd.Email, cmd.Name, cmd.Password, uc.hasher)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.Create(ctx, op); err != nil {
		if errors.Is(err, operator.ErrEmailExists) {
			return nil, apperrors.NewConflictError("operator email already registered", op.Email())
		}
		uc.logger.Errorw("failed to create operator", "error", err)
		return nil, apperrors.NewInternalError("failed to create operator")
	}
	uc.logger.Infow("operator created", "sid", op.SID(), "email", op.Email())
	return dto.ToOperatorDTO(op), nil
}
