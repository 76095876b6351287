package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(NewCORS([]string{"https://app.example/", " https://other.example "}).Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("白名单来源", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/x", map[string]string{"Origin": "https://app.example"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Values("Vary"), "Origin")
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
	})

	t.Run("未授权来源", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("预检请求", func(t *testing.T) {
		rec := serve(r, http.MethodOptions, "/x", map[string]string{
			"Origin":                         "https://other.example",
			"Access-Control-Request-Method":  http.MethodPost,
			"Access-Control-Request-Headers": "Content-Type",
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://other.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "content-type")
	})

	t.Run("任意来源", func(t *testing.T) {
		wildcard := gin.New()
		wildcard.Use(NewCORS([]string{"*"}).Middleware())
		wildcard.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		rec := serve(wildcard, http.MethodGet, "/x", map[string]string{"Origin": "https://anywhere.example"})
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(NewRequestID().Middleware())
	r.GET("/x", func(c *gin.Context) { seen = GetRequestID(c) })

	rec := serve(r, http.MethodGet, "/x", map[string]string{RequestIDHeader: "abc"})
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc", seen)

	rec = serve(r, http.MethodGet, "/x", map[string]string{RequestIDHeader: strings.Repeat("a", maxRequestIDLen+1)})
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), seen)
}

func TestRecoveryAndLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(NewRequestID().Middleware(), NewLogger(logger).Middleware(), Recovery(logger))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := serve(r, http.MethodGet, "/panic", map[string]string{RequestIDHeader: "req-1"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"`+UnexpectedErrorMessage+`"}`, rec.Body.String())

	recovered := logs.FilterMessage("HTTP handler panic recovered").All()
	require.Len(t, recovered, 1)
	assert.Equal(t, "req-1", recovered[0].ContextMap()["request_id"])
	assert.Equal(t, "boom", recovered[0].ContextMap()["panic"])
	access := logs.FilterMessage("HTTP request").All()
	require.Len(t, access, 1)
	assert.Equal(t, zapcore.ErrorLevel, access[0].Level)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := gin.New()
	r.Use(NewMetrics(reg).Middleware())
	r.GET("/x/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/x/1", nil)
	serve(r, http.MethodGet, "/x/2", nil)
	serve(r, http.MethodGet, "/missing", nil)

	n, err := testutil.GatherAndCount(reg, "ccip_http_requests_total")
	require.NoError(t, err)
	// 路径参数不进入标签，未匹配路由归入 unmatched
	assert.Equal(t, 2, n)
}
