package operator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPasswordHasher struct{}

func (h *mockPasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *mockPasswordHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

func TestNewOperator(t *testing.T) {
	o, err := NewOperator(" Ana@Clube.com.br", "Ana", "senha1234", &mockPasswordHasher{})
	require.NoError(t, err)
	assert.Equal(t, "ana@clube.com.br", o.Email())
	assert.True(t, o.IsActive())

	_, err = NewOperator("not-an-email", "Ana", "senha1234", &mockPasswordHasher{})
	assert.Error(t, err)

	_, err = NewOperator("ana@clube.com.br", "Ana", "short1", &mockPasswordHasher{})
	assert.Error(t, err)

	_, err = NewOperator("ana@clube.com.br", "Ana", "onlyletters", &mockPasswordHasher{})
	assert.Error(t, err)
}

func TestOperator_AuthenticateLocksAfterFailures(t *testing.T) {
	hasher := &mockPasswordHasher{}
	o, err := NewOperator("ana@clube.com.br", "Ana", "senha1234", hasher)
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < maxFailedLogins; i++ {
		assert.ErrorIs(t, o.Authenticate("wrong", hasher, now), ErrInvalidPassword)
	}
	assert.ErrorIs(t, o.Authenticate("senha1234", hasher, now), ErrOperatorLocked)

	later := now.Add(lockDuration + time.Second)
	require.NoError(t, o.Authenticate("senha1234", hasher, later))
	assert.Zero(t, o.FailedLoginAttempts())
	assert.Equal(t, later, *o.LastLoginAt())
}
