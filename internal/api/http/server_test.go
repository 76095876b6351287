package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiconfig "github.com/weisyn/ccip-gateway/internal/config/api"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/gateway"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

const (
	testSender = "0x8464135c8f25da09e49bc8782676a84730c318bc"
	addSig     = "add(uint256,uint256) returns (uint256)"
	failSig    = "fail() returns (uint256)"
	slowSig    = "slow() returns (uint256)"
	crashSig   = "crash() returns (uint256)"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server   *Server
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T, mutate func(*apiconfig.HTTPConfig)) *testEnv {
	t.Helper()

	cfg := apiconfig.New(nil).GetOptions().HTTP
	cfg.Timeout = 0
	if mutate != nil {
		mutate(&cfg)
	}

	reg := prometheus.NewRegistry()
	gw := gateway.NewServer(nil, gateway.Config{Registerer: reg})
	require.NoError(t, gw.Add(addSig, func(_ context.Context, req *types.DecodedRequest) ([]types.Value, error) {
		a, _ := req.Arg(0)
		b, _ := req.Arg(1)
		return []types.Value{types.NewUint(new(big.Int).Add(a.Int, b.Int))}, nil
	}))
	require.NoError(t, gw.Add(failSig, func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
		return nil, types.NewHandlerError(types.ClassClient, 3, "name not registered")
	}))
	require.NoError(t, gw.Add(slowSig, func(ctx context.Context, _ *types.DecodedRequest) ([]types.Value, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	require.NoError(t, gw.Add(crashSig, func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
		panic("nil map write")
	}))
	gw.Seal()

	srv := NewServer(ServerDeps{
		HTTP:        cfg,
		RoutePrefix: "/gateway",
		Gateway:     gw,
		Registerer:  reg,
		Gatherer:    reg,
	})
	return &testEnv{server: srv, registry: reg}
}

func (e *testEnv) do(req *nethttp.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(nethttp.MethodGet, path, nil))
}

func (e *testEnv) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(nethttp.MethodPost, "/gateway", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func callHex(t *testing.T, signature string, args ...types.Value) string {
	t.Helper()
	sig, err := abicodec.ParseSignature(signature)
	require.NoError(t, err)
	data, err := sig.EncodeCall(args...)
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func requireUint(t *testing.T, rec *httptest.ResponseRecorder, want uint64) {
	t.Helper()
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	data, ok := decodeBody(t, rec)["data"].(string)
	require.True(t, ok)

	sig, err := abicodec.ParseSignature(addSig)
	require.NoError(t, err)
	vals, err := sig.DecodeOutputs(hexutil.MustDecode(data))
	require.NoError(t, err)
	assert.True(t, vals[0].Equal(types.NewUint64(want)))
}

// TestGatewayGet 测试 GET 端点
func TestGatewayGet(t *testing.T) {
	env := newTestEnv(t, nil)
	data := callHex(t, addSig, types.NewUint64(2), types.NewUint64(3))

	t.Run("带json后缀", func(t *testing.T) {
		requireUint(t, env.get("/gateway/"+testSender+"/"+data+".json"), 5)
	})

	t.Run("不带后缀", func(t *testing.T) {
		requireUint(t, env.get("/gateway/"+testSender+"/"+data), 5)
	})

	t.Run("缺少0x前缀", func(t *testing.T) {
		requireUint(t, env.get("/gateway/"+testSender+"/"+strings.TrimPrefix(data, "0x")+".json"), 5)
	})

	t.Run("未知选择器", func(t *testing.T) {
		rec := env.get("/gateway/" + testSender + "/0x9061b923.json")
		assert.Equal(t, nethttp.StatusNotFound, rec.Code)
		assert.Equal(t, map[string]interface{}{
			"message": "No implementation for function with selector 0x9061b923",
		}, decodeBody(t, rec))
	})

	t.Run("非法发送方", func(t *testing.T) {
		rec := env.get("/gateway/0x1234/" + data + ".json")
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid sender address", decodeBody(t, rec)["message"])
	})

	t.Run("非法十六进制", func(t *testing.T) {
		rec := env.get("/gateway/" + testSender + "/0xzz.json")
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("调用数据过短", func(t *testing.T) {
		rec := env.get("/gateway/" + testSender + "/0x.json")
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})
}

// TestGatewayPost 测试 POST 端点
func TestGatewayPost(t *testing.T) {
	env := newTestEnv(t, func(c *apiconfig.HTTPConfig) { c.MaxBodyBytes = 1024 })
	data := callHex(t, addSig, types.NewUint64(40), types.NewUint64(2))

	t.Run("data字段", func(t *testing.T) {
		requireUint(t, env.post(`{"sender":"`+testSender+`","data":"`+data+`"}`), 42)
	})

	t.Run("calldata别名", func(t *testing.T) {
		requireUint(t, env.post(`{"sender":"`+testSender+`","calldata":"`+data+`"}`), 42)
	})

	t.Run("非法JSON", func(t *testing.T) {
		rec := env.post(`{"sender":`)
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decodeBody(t, rec)["message"])
	})

	t.Run("缺少数据", func(t *testing.T) {
		rec := env.post(`{"sender":"` + testSender + `"}`)
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("请求体过大", func(t *testing.T) {
		payload := strings.Repeat("00", 1024)
		rec := env.post(`{"sender":"` + testSender + `","data":"0x` + payload + `"}`)
		assert.Equal(t, nethttp.StatusRequestEntityTooLarge, rec.Code)
	})
}

// TestHandlerErrors 测试处理器错误的 HTTP 映射
func TestHandlerErrors(t *testing.T) {
	t.Run("错误码透传", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.get("/gateway/" + testSender + "/" + callHex(t, failSig) + ".json")
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]interface{}{"message": "name not registered", "code": float64(3)}, decodeBody(t, rec))
	})

	t.Run("处理器panic", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.get("/gateway/" + testSender + "/" + callHex(t, crashSig) + ".json")
		assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Unexpected error", decodeBody(t, rec)["message"])
	})

	t.Run("调用超时", func(t *testing.T) {
		env := newTestEnv(t, func(c *apiconfig.HTTPConfig) { c.Timeout = 20 * time.Millisecond })
		rec := env.get("/gateway/" + testSender + "/" + callHex(t, slowSig) + ".json")
		assert.Equal(t, nethttp.StatusGatewayTimeout, rec.Code)
	})

	t.Run("HTTP层panic", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.server.Router().GET("/boom", func(*gin.Context) { panic(errors.New("boom")) })
		rec := env.get("/boom")
		assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Unexpected error", decodeBody(t, rec)["message"])
	})
}

// TestAuxiliaryEndpoints 测试 CORS、健康检查与指标端点
func TestAuxiliaryEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("CORS", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/gateway/"+testSender+"/"+callHex(t, addSig, types.NewUint64(1), types.NewUint64(1)), nil)
		req.Header.Set("Origin", "https://app.example")
		rec := env.do(req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

		preflight := httptest.NewRequest(nethttp.MethodOptions, "/gateway", nil)
		preflight.Header.Set("Origin", "https://app.example")
		preflight.Header.Set("Access-Control-Request-Method", nethttp.MethodPost)
		rec = env.do(preflight)
		assert.Equal(t, nethttp.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("请求ID", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/health/live", nil)
		req.Header.Set("X-Request-ID", "trace-123")
		assert.Equal(t, "trace-123", env.do(req).Header().Get("X-Request-ID"))
		assert.NotEmpty(t, env.get("/health/live").Header().Get("X-Request-ID"))
	})

	t.Run("健康检查", func(t *testing.T) {
		rec := env.get("/health")
		require.Equal(t, nethttp.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, float64(4), body["handlers"])
		assert.Equal(t, nethttp.StatusOK, env.get("/health/ready").Code)
	})

	t.Run("指标", func(t *testing.T) {
		env.get("/gateway/" + testSender + "/0x9061b923.json")
		rec := env.get("/metrics")
		require.Equal(t, nethttp.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ccip_http_requests_total")
		assert.Contains(t, rec.Body.String(), `ccip_gateway_calls_total{kind="unknown_selector",selector="unknown",status="404"}`)
	})

	t.Run("未匹配路由", func(t *testing.T) {
		rec := env.get("/nope")
		assert.Equal(t, nethttp.StatusNotFound, rec.Code)
		assert.Equal(t, "not found", decodeBody(t, rec)["message"])
	})

	t.Run("关闭附加端点", func(t *testing.T) {
		bare := newTestEnv(t, func(c *apiconfig.HTTPConfig) {
			c.EnableHealth = false
			c.EnableMetrics = false
			c.CORSEnabled = false
		})
		assert.Equal(t, nethttp.StatusNotFound, bare.get("/health").Code)
		assert.Equal(t, nethttp.StatusNotFound, bare.get("/metrics").Code)
	})
}

// TestServerLifecycle 测试真实监听与优雅关闭
func TestServerLifecycle(t *testing.T) {
	env := newTestEnv(t, func(c *apiconfig.HTTPConfig) {
		c.Host = "127.0.0.1"
		c.Port = 0
	})

	require.NoError(t, env.server.Start())
	assert.Error(t, env.server.Start())
	addr := env.server.Addr()
	require.NotEmpty(t, addr)

	data := callHex(t, addSig, types.NewUint64(2), types.NewUint64(3))
	resp, err := nethttp.Get("http://" + addr + "/gateway/" + testSender + "/" + data + ".json")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

	require.NoError(t, env.server.Stop(context.Background()))
	assert.Empty(t, env.server.Addr())
	require.NoError(t, env.server.Stop(context.Background()))
}
