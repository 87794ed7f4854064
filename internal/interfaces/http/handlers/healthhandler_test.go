package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beneficlub/backoffice/internal/interfaces/http/handlers/testutil"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all up", func(t *testing.T) {
		handler := NewHealthHandler(HealthChecks{"database": up, "redis": nil}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		handler.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
		assert.NotContains(t, w.Body.String(), "redis")
	})

	t.Run("dependency down", func(t *testing.T) {
		handler := NewHealthHandler(HealthChecks{"database": up, "redis": down}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		handler.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"down"`)
	})
}
