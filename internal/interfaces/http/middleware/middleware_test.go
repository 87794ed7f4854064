package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/beneficlub/backoffice/internal/infrastructure/auth"
	"github.com/beneficlub/backoffice/internal/shared/constants"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) Verify(string) (*auth.Claims, error) { return s.claims, s.err }

type routeRecorder struct {
	routes []string
	codes  []int
}

func (r *routeRecorder) RecordHTTPRequest(_, path string, status int, _ time.Duration) {
	r.routes = append(r.routes, path)
	r.codes = append(r.codes, status)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		want     int
	}{
		{"missing header", "", stubVerifier{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubVerifier{}, http.StatusUnauthorized},
		{"expired", "Bearer t", stubVerifier{err: auth.ErrTokenExpired}, http.StatusUnauthorized},
		{"invalid", "Bearer t", stubVerifier{err: errors.New("bad sig")}, http.StatusUnauthorized},
		{"valid", "Bearer t", stubVerifier{claims: &auth.Claims{OperatorSID: "op_1"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			m := NewAuthMiddleware(tt.verifier, logger.NewNopLogger())
			engine.GET("/admin/ping", m.RequireAuth(), func(c *gin.Context) {
				c.String(http.StatusOK, OperatorSID(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "op_1", w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID)) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w = serve(engine, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestCustomLogger_RecordsRouteTemplate(t *testing.T) {
	rec := &routeRecorder{}
	engine := gin.New()
	engine.Use(CustomLogger(logger.NewNopLogger(), rec))
	engine.GET("/admin/subscribers/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/admin/subscribers/sub_abc", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, []string{"/admin/subscribers/:id", "unmatched"}, rec.routes)
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNotFound}, rec.codes)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://admin.beneficlub.com.br"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.beneficlub.com.br")
	w := serve(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.beneficlub.com.br", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(engine, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter_NilLimiterAllows(t *testing.T) {
	engine := gin.New()
	engine.POST("/auth/login", NewRateLimiter(nil, logger.NewNopLogger()).Limit(),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

type countingLimiter struct {
	budget int
	keys   []string
	err    error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return false, l.err
	}
	l.budget--
	return l.budget >= 0, nil
}

func (l *countingLimiter) Reset(context.Context, string) error { return nil }

func TestRateLimiter_Limit(t *testing.T) {
	limiter := &countingLimiter{budget: 2}
	engine := gin.New()
	engine.POST("/auth/login", NewRateLimiter(limiter, logger.NewNopLogger()).Limit(),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "/auth/login:192.0.2.1", limiter.keys[0])
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis: connection refused")}
	engine := gin.New()
	engine.POST("/auth/login", NewRateLimiter(limiter, logger.NewNopLogger()).Limit(),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
