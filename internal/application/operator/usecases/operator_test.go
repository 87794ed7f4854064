package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/operator"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "h:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type memOperatorRepository struct {
	ops     map[string]*operator.Operator
	updates int
}

func newMemOperatorRepository() *memOperatorRepository {
	return &memOperatorRepository{ops: map[string]*operator.Operator{}}
}

func (r *memOperatorRepository) Create(_ context.Context, o *operator.Operator) error {
	if _, ok := r.ops[o.Email()]; ok {
		return operator.ErrEmailExists
	}
	o.SetID(uint(len(r.ops) + 1))
	r.ops[o.Email()] = o
	return nil
}

func (r *memOperatorRepository) Update(context.Context, *operator.Operator) error {
	r.updates++
	return nil
}

func (r *memOperatorRepository) GetByEmail(_ context.Context, email string) (*operator.Operator, error) {
	return r.ops[email], nil
}

func (r *memOperatorRepository) GetBySID(_ context.Context, sid string) (*operator.Operator, error) {
	for _, o := range r.ops {
		if o.SID() == sid {
			return o, nil
		}
	}
	return nil, nil
}

type stubIssuer struct{ err error }

func (s stubIssuer) Issue(operatorSID, _ string) (string, int64, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	return "token-" + operatorSID, 3600, nil
}

func seedOperator(t *testing.T, repo *memOperatorRepository) string {
	t.Helper()
	out, err := NewCreateOperatorUseCase(repo, plainHasher{}, logger.NewNopLogger()).Execute(context.Background(),
		CreateOperatorCommand{Email: "Ops@Club.com.br", Name: "Operações", Password: "s3nhaforte"})
	require.NoError(t, err)
	return out.SID
}

func TestCreateOperator(t *testing.T) {
	repo := newMemOperatorRepository()
	seedOperator(t, repo)
	assert.Contains(t, repo.ops, "ops@club.com.br")

	uc := NewCreateOperatorUseCase(repo, plainHasher{}, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), CreateOperatorCommand{Email: "ops@club.com.br", Password: "outra1234"})
	assert.True(t, apperrors.IsConflictError(err))

	_, err = uc.Execute(context.Background(), CreateOperatorCommand{Email: "new@club.com.br", Password: "short"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestLogin(t *testing.T) {
	repo := newMemOperatorRepository()
	sid := seedOperator(t, repo)
	uc := NewLoginUseCase(repo, plainHasher{}, stubIssuer{}, logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), LoginCommand{Email: " OPS@club.com.br ", Password: "s3nhaforte"})
	require.NoError(t, err)
	assert.Equal(t, "token-"+sid, out.AccessToken)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	assert.NotNil(t, out.Operator.LastLoginAt)
	assert.Equal(t, 1, repo.updates)
}

func TestLogin_Failures(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		uc := NewLoginUseCase(newMemOperatorRepository(), plainHasher{}, stubIssuer{}, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), LoginCommand{Email: "nobody@club.com.br", Password: "x"})
		require.NotNil(t, apperrors.GetAuthError(err))
		assert.Equal(t, apperrors.ErrorTypeInvalidCredentials, apperrors.GetAppError(err).Type)
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		repo := newMemOperatorRepository()
		seedOperator(t, repo)
		uc := NewLoginUseCase(repo, plainHasher{}, stubIssuer{}, logger.NewNopLogger())

		for i := 0; i < 5; i++ {
			_, err := uc.Execute(context.Background(), LoginCommand{Email: "ops@club.com.br", Password: "errada123"})
			assert.Equal(t, apperrors.ErrorTypeInvalidCredentials, apperrors.GetAppError(err).Type)
		}
		_, err := uc.Execute(context.Background(), LoginCommand{Email: "ops@club.com.br", Password: "s3nhaforte"})
		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.GetAppError(err).Type)
		assert.Equal(t, 5, repo.updates)
	})

	t.Run("inactive operator", func(t *testing.T) {
		repo := newMemOperatorRepository()
		seedOperator(t, repo)
		repo.ops["ops@club.com.br"].Deactivate()
		uc := NewLoginUseCase(repo, plainHasher{}, stubIssuer{}, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), LoginCommand{Email: "ops@club.com.br", Password: "s3nhaforte"})
		assert.Equal(t, apperrors.ErrorTypeAccountInactive, apperrors.GetAppError(err).Type)
	})

	t.Run("token signing failure", func(t *testing.T) {
		repo := newMemOperatorRepository()
		seedOperator(t, repo)
		uc := NewLoginUseCase(repo, plainHasher{}, stubIssuer{err: errors.New("no key")}, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), LoginCommand{Email: "ops@club.com.br", Password: "s3nhaforte"})
		assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
	})
}
