package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth(t *testing.T) {
	r := newTestRouter()
	r.POST("/hook", APIKeyAuth("secret-key"), func(c *gin.Context) { c.Status(http.StatusOK) })
	rEmpty := newTestRouter()
	rEmpty.POST("/hook", APIKeyAuth(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := func(key string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/hook", nil)
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		return req
	}

	assert.Equal(t, http.StatusOK, serve(r, req("secret-key")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req("secret-kez")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req("")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(rEmpty, req("anything")).Code)
}

func TestAuthMiddleware_SetsActor(t *testing.T) {
	const secret = "middleware-test-secret"
	r := newTestRouter(AuthMiddleware(secret))
	var got struct {
		id, token string
	}
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		require.True(t, ok)
		got.id, got.token = actor.ID, actor.LedgerToken
		c.Status(http.StatusOK)
	})

	token, _, err := utils.GenerateJWT("admin-7", "ledger-abc", secret, time.Hour, "test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
	assert.Equal(t, "admin-7", got.id)
	assert.Equal(t, "ledger-abc", got.token)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	other, _, err := utils.GenerateJWT("admin-7", "", "another-secret", time.Hour, "test")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRateLimit(t *testing.T) {
	l, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)
	r := newTestRouter()
	r.POST("/login", RateLimit(l), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	_, err = NewMemoryLimiter("lots")
	assert.Error(t, err)
}

func TestStructuredLogging_RequestID(t *testing.T) {
	r := newTestRouter()
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "7b0a4c52-5a3c-4c1e-9d2f-8f1b2a3c4d5e")
	w = serve(r, req)
	assert.Equal(t, "7b0a4c52-5a3c-4c1e-9d2f-8f1b2a3c4d5e", w.Header().Get(RequestIDHeader))

	// arbitrary header values are not echoed into logs
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestAdminEventName(t *testing.T) {
	assert.Equal(t, "admin_transactions_approve", adminEventName("/api/v1/admin/transactions/:id/approve"))
	assert.Equal(t, "admin_transactions_bulk_reject", adminEventName("/api/v1/admin/transactions/bulk-reject"))
	assert.Equal(t, "admin_callbacks_reconcile", adminEventName("/api/v1/admin/callbacks/reconcile"))
	assert.Equal(t, "", adminEventName("/health"))
}
