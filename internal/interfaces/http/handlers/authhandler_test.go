package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/application/operator/dto"
	"github.com/beneficlub/backoffice/internal/application/operator/usecases"
	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers/testutil"
	"github.com/beneficlub/backoffice/internal/shared/errors"
)

type mockLoginUC struct {
	result *dto.LoginResponse
	err    error
	got    usecases.LoginCommand
}

func (m *mockLoginUC) Execute(ctx context.Context, cmd usecases.LoginCommand) (*dto.LoginResponse, error) {
	m.got = cmd
	return m.result, m.err
}

func TestAuthHandler_Login_Success(t *testing.T) {
	loginUC := &mockLoginUC{result: &dto.LoginResponse{
		AccessToken: "jwt-token",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
	}}
	handler := NewAuthHandler(loginUC, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", map[string]string{
		"email":    "ana@beneficlub.com.br",
		"password": "s3cret-pass",
	})
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@beneficlub.com.br", loginUC.got.Email)
	assert.NotEmpty(t, loginUC.got.IPAddress)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	assert.Equal(t, "jwt-token", login.AccessToken)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		ucErr      error
		wantStatus int
	}{
		{
			name:       "missing password",
			body:       map[string]string{"email": "ana@beneficlub.com.br"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       map[string]string{"email": "ana", "password": "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong credentials",
			body:       map[string]string{"email": "ana@beneficlub.com.br", "password": "x"},
			ucErr:      errors.NewInvalidCredentialsError(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive account",
			body:       map[string]string{"email": "ana@beneficlub.com.br", "password": "x"},
			ucErr:      errors.NewAccountInactiveError(),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockLoginUC{err: tt.ucErr}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", tt.body)
			handler.Login(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
