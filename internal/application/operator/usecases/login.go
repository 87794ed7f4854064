package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/beneficlub/backoffice/internal/application/operator/dto"
	"github.com/beneficlub/backoffice/internal/domain/operator"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type TokenIssuer interface {
	Issue(operatorSID, email string) (token string, expiresIn int64, err error)
}

type LoginCommand struct {
	Email     string
	Password  string
	IPAddress string
}

type LoginUseCase struct {
	repo   operator.Repository
	hasher operator.PasswordHasher
	tokens TokenIssuer
	logger logger.Interface
}

func NewLoginUseCase(
	repo operator.Repository,
	hasher operator.PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	op, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get operator by email", "error", err)
		return nil, apperrors.NewInternalError("login failed")
	}
	// unknown email and wrong password look the same to the caller
	if op == nil {
		return nil, apperrors.NewInvalidCredentialsError()
	}
	if !op.IsActive() {
		return nil, apperrors.NewAccountInactiveError()
	}

	authErr := op.Authenticate(cmd.Password, uc.hasher, biztime.NowUTC())
	if !errors.Is(authErr, operator.ErrOperatorLocked) {
		if err := uc.repo.Update(ctx, op); err != nil {
			uc.logger.Warnw("failed to save operator login state", "sid", op.SID(), "error", err)
		}
	}
	switch {
	case errors.Is(authErr, operator.ErrOperatorLocked):
		uc.logger.Warnw("login attempt on locked operator", "sid", op.SID(), "ip", cmd.IPAddress)
		return nil, apperrors.NewForbiddenError("too many failed attempts, try again later")
	case authErr != nil:
		uc.logger.Infow("operator login failed", "sid", op.SID(), "attempts", op.FailedLoginAttempts(), "ip", cmd.IPAddress)
		return nil, apperrors.NewInvalidCredentialsError()
	}

	token, expiresIn, err := uc.tokens.Issue(op.SID(), op.Email())
	if err != nil {
		uc.logger.Errorw("failed to issue access token", "sid", op.SID(), "error", err)
		return nil, apperrors.NewInternalError("login failed")
	}

	uc.logger.Infow("operator logged in", "sid", op.SID(), "ip", cmd.IPAddress)
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Operator:    dto.ToOperatorDTO(op),
	}, nil
}
