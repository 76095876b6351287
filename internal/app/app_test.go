package app

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/gateway"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

const testSender = "0x8464135c8f25da09e49bc8782676a84730c318bc"

func testConfig() *types.AppConfig {
	return &types.AppConfig{
		Environment: types.StringPtr("test"),
		API: &types.UserAPIConfig{
			HTTPHost: types.StringPtr("127.0.0.1"),
			HTTPPort: types.IntPtr(0),
		},
		Log: &types.UserLogConfig{Level: types.StringPtr("error")},
	}
}

// TestLoadConfig 测试配置来源优先级
func TestLoadConfig(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	t.Run("缺省配置", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Nil(t, cfg.API)
	})

	t.Run("嵌入配置", func(t *testing.T) {
		cfg, err := LoadConfig(WithEmbeddedConfig([]byte(`{"app_name":"embedded"}`)))
		require.NoError(t, err)
		assert.Equal(t, "embedded", *cfg.AppName)
	})

	t.Run("文件优先于嵌入配置", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gateway.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"app_name":"file","gateway":{"handlers":["echo"]}}`), 0o600))

		cfg, err := LoadConfig(WithConfigFile(path), WithEmbeddedConfig([]byte(`{"app_name":"embedded"}`)))
		require.NoError(t, err)
		assert.Equal(t, "file", *cfg.AppName)
		assert.Equal(t, []string{"echo"}, cfg.Gateway.Handlers)
	})

	t.Run("环境变量优先于文件", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, "env.json")
		require.NoError(t, os.WriteFile(envPath, []byte(`{"app_name":"env"}`), 0o600))
		t.Setenv(ConfigPathEnv, envPath)

		cfg, err := LoadConfig(WithConfigFile(filepath.Join(dir, "missing.json")))
		require.NoError(t, err)
		assert.Equal(t, "env", *cfg.AppName)
	})

	t.Run("直接配置优先", func(t *testing.T) {
		cfg, err := LoadConfig(WithAppConfig(testConfig()), WithConfigFile("/nonexistent.json"))
		require.NoError(t, err)
		assert.Equal(t, "test", *cfg.Environment)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadConfig(WithConfigFile(filepath.Join(t.TempDir(), "missing.json")))
		assert.Error(t, err)
	})

	t.Run("未知字段", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"gateway":{"handler":["add"]}}`))
		assert.Error(t, err)
	})
}

// TestStart 测试完整装配：配置、日志、指标、网关与 HTTP 服务
func TestStart(t *testing.T) {
	greetSig := "greet(string) returns (string)"

	a, err := Start(
		WithAppConfig(testConfig()),
		WithModules(fx.Invoke(func(s *gateway.Server) error {
			return s.Add(greetSig, func(_ context.Context, req *types.DecodedRequest) ([]types.Value, error) {
				name, _ := req.Arg(0)
				return []types.Value{types.NewString("hello " + name.Str)}, nil
			})
		})),
	)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Stop()) })

	require.True(t, a.Gateway().Sealed())
	assert.Len(t, a.Gateway().Handlers(), 3, "echo、add 与自定义 greet")

	addr := a.HTTPAddr()
	require.NotEmpty(t, addr)

	sig, err := abicodec.ParseSignature("add(uint256,uint256) returns (uint256)")
	require.NoError(t, err)
	data, err := sig.EncodeCall(types.NewUint64(20), types.NewUint64(22))
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/gateway/" + testSender + "/" + hexutil.Encode(data) + ".json")
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var body struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	vals, err := sig.DecodeOutputs(hexutil.MustDecode(body.Data))
	require.NoError(t, err)
	assert.Equal(t, 0, vals[0].Int.Cmp(big.NewInt(42)))
}

// TestStartWithoutAPI 测试禁用 API 时网关仍可直接调用
func TestStartWithoutAPI(t *testing.T) {
	a, err := Start(WithAppConfig(testConfig()), WithoutAPI())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Stop()) })

	assert.Empty(t, a.HTTPAddr())
	assert.True(t, a.Gateway().Sealed())
}

// TestStartInvalidConfig 测试非法配置阻止启动
func TestStartInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Gateway = &types.UserGatewayConfig{Handlers: []string{"transfer"}}

	_, err := Start(WithAppConfig(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown handler")
}
