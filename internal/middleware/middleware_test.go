package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c.Request.Context()))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func responseCode(t *testing.T, w *httptest.ResponseRecorder) int {
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestTraceMiddleware(t *testing.T) {
	r := newEngine(TraceMiddlewareWithConfig(true, ""))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(DefaultTraceIDHeader, "abc")
	w := serve(r, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(DefaultTraceIDHeader))

	w = serve(r, httptest.NewRequest("GET", "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(DefaultTraceIDHeader))
	assert.Equal(t, w.Header().Get(DefaultTraceIDHeader), w.Body.String())
}

func TestTraceMiddlewareDisabled(t *testing.T) {
	r := newEngine(TraceMiddlewareWithConfig(false, ""))
	w := serve(r, httptest.NewRequest("GET", "/ping", nil))
	assert.Empty(t, w.Header().Get(DefaultTraceIDHeader))
}

func TestRecovery(t *testing.T) {
	r := newEngine(RecoveryWithLogger(zap.NewNop()))
	w := serve(r, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, code.ErrorServerInternal.Code(), responseCode(t, w))
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key: "/ping", FillInterval: time.Hour, Capacity: 1, Quantum: 1,
	})
	r := newEngine(RateLimiter(l))

	w := serve(r, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, code.ErrorTooManyRequests.Code(), responseCode(t, w))
}

func TestSimpleAuthToken(t *testing.T) {
	r := newEngine(SimpleAuthTokenWithConfig("secret"))

	w := serve(r, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, code.ErrorInvalidAuthToken.Code(), responseCode(t, w))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNoFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(NoFound())
	w := serve(r, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, code.ErrorNotFoundAPI.Code(), responseCode(t, w))
}
