package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/registry"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

var testSender = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func buildRegistry(t *testing.T, handlers map[string]ccip.HandlerFunc) *registry.Registry {
	t.Helper()
	b := registry.NewBuilder()
	for sig, fn := range handlers {
		require.NoError(t, b.Register(sig, fn))
	}
	return b.Build()
}

func callData(t *testing.T, signature string, args ...types.Value) []byte {
	t.Helper()
	sig, err := abicodec.ParseSignature(signature)
	require.NoError(t, err)
	data, err := sig.EncodeCall(args...)
	require.NoError(t, err)
	return data
}

func addHandler(_ context.Context, req *types.DecodedRequest) ([]types.Value, error) {
	a, _ := req.Arg(0)
	b, _ := req.Arg(1)
	return []types.Value{types.NewUint(new(big.Int).Add(a.Int, b.Int))}, nil
}

// TestDecoder 测试请求解码
func TestDecoder(t *testing.T) {
	const addSig = "add(uint256,uint256) returns (uint256)"
	dec := NewDecoder(buildRegistry(t, map[string]ccip.HandlerFunc{addSig: addHandler}))

	t.Run("正常解码", func(t *testing.T) {
		data := callData(t, addSig, types.NewUint64(2), types.NewUint64(3))
		req, h, err := dec.Decode(testSender, data)
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.Equal(t, testSender, req.Sender)
		assert.Equal(t, h.Signature.Selector, req.Selector)
		assert.Equal(t, addSig, req.Signature)
		assert.Equal(t, data, req.CallData)
		assert.True(t, types.ValuesEqual([]types.Value{types.NewUint64(2), types.NewUint64(3)}, req.Args))
	})

	t.Run("调用数据过短", func(t *testing.T) {
		for _, data := range [][]byte{nil, {}, {0x01, 0x02, 0x03}} {
			_, _, err := dec.Decode(testSender, data)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, types.ErrKindTooShort, reqErr.Kind)
			assert.Equal(t, types.ClassClient, reqErr.Class())
		}
	})

	t.Run("未知选择器", func(t *testing.T) {
		_, _, err := dec.Decode(testSender, []byte{0xde, 0xad, 0xbe, 0xef})
		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, types.ClassNotFound, reqErr.Class())
		assert.Equal(t, "No implementation for function with selector 0xdeadbeef", reqErr.Error())
	})

	t.Run("参数解码失败", func(t *testing.T) {
		data := callData(t, addSig, types.NewUint64(2), types.NewUint64(3))
		_, _, err := dec.Decode(testSender, data[:20])
		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, types.ErrKindDecodeFailed, reqErr.Kind)
		assert.Equal(t, types.ClassClient, reqErr.Class())
		assert.ErrorIs(t, err, abicodec.ErrMalformed)
	})
}

// TestDispatcher 测试处理器调用与错误归类
func TestDispatcher(t *testing.T) {
	sig, err := abicodec.ParseSignature("f() returns (uint256)")
	require.NoError(t, err)
	req := &types.DecodedRequest{Selector: sig.Selector, Signature: sig.String()}
	handler := func(fn ccip.HandlerFunc) *registry.Handler {
		return &registry.Handler{Signature: sig, Fn: fn}
	}

	t.Run("成功", func(t *testing.T) {
		d := NewDispatcher(nil, 0)
		vals, herr := d.Dispatch(context.Background(), req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
			return []types.Value{types.NewUint64(7)}, nil
		}))
		require.Nil(t, herr)
		assert.True(t, types.ValuesEqual([]types.Value{types.NewUint64(7)}, vals))
	})

	t.Run("普通错误保留消息", func(t *testing.T) {
		d := NewDispatcher(nil, 0)
		_, herr := d.Dispatch(context.Background(), req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
			return nil, fmt.Errorf("balance lookup failed: node unreachable")
		}))
		require.NotNil(t, herr)
		assert.Equal(t, "balance lookup failed: node unreachable", herr.Message)
		assert.Equal(t, types.ClassServer, herr.Class)
		assert.False(t, herr.HasCode())
	})

	t.Run("结构化错误透传", func(t *testing.T) {
		d := NewDispatcher(nil, 0)
		_, herr := d.Dispatch(context.Background(), req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
			return nil, fmt.Errorf("wrapped: %w", types.NewHandlerError(types.ClassClient, 42, "name %q not found", "vitalik.eth"))
		}))
		require.NotNil(t, herr)
		assert.Equal(t, `name "vitalik.eth" not found`, herr.Message)
		assert.Equal(t, int64(42), herr.Code)
		assert.Equal(t, types.ClassClient, herr.Class)
	})

	t.Run("类型化nil错误视为成功", func(t *testing.T) {
		validate := func(ok bool) *types.HandlerError {
			if !ok {
				return types.ClientError("invalid input")
			}
			return nil
		}
		d := NewDispatcher(nil, 0)
		vals, herr := d.Dispatch(context.Background(), req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
			return []types.Value{types.NewUint64(1)}, validate(true)
		}))
		require.Nil(t, herr)
		assert.True(t, types.ValuesEqual([]types.Value{types.NewUint64(1)}, vals))
	})

	t.Run("包装的类型化nil错误", func(t *testing.T) {
		d := NewDispatcher(nil, 0)
		require.NotPanics(t, func() {
			_, herr := d.Dispatch(context.Background(), req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
				return nil, fmt.Errorf("validate: %w", (*types.HandlerError)(nil))
			}))
			require.NotNil(t, herr)
			assert.Equal(t, types.ClassServer, herr.Class)
		})
	})

	t.Run("panic被恢复", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		d := NewDispatcher(zap.New(core), 0)
		_, herr := d.Dispatch(context.Background(), req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
			panic("boom")
		}))
		require.NotNil(t, herr)
		assert.Equal(t, types.ClassServer, herr.Class)
		assert.Equal(t, 1, logs.FilterMessage("CCIP handler panic recovered").Len())
	})

	t.Run("超时", func(t *testing.T) {
		d := NewDispatcher(nil, 20*time.Millisecond)
		_, herr := d.Dispatch(context.Background(), req, handler(func(ctx context.Context, _ *types.DecodedRequest) ([]types.Value, error) {
			<-ctx.Done()
			time.Sleep(50 * time.Millisecond)
			return nil, nil
		}))
		require.NotNil(t, herr)
		assert.Equal(t, types.ClassTimeout, herr.Class)
	})

	t.Run("处理器返回上下文错误", func(t *testing.T) {
		d := NewDispatcher(nil, 10*time.Millisecond)
		_, herr := d.Dispatch(context.Background(), req, handler(func(ctx context.Context, _ *types.DecodedRequest) ([]types.Value, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}))
		require.NotNil(t, herr)
		assert.Equal(t, types.ClassTimeout, herr.Class)
	})

	t.Run("已取消的上下文", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		d := NewDispatcher(nil, 0)
		_, herr := d.Dispatch(ctx, req, handler(func(context.Context, *types.DecodedRequest) ([]types.Value, error) {
			called = true
			return nil, nil
		}))
		require.NotNil(t, herr)
		assert.Equal(t, types.ClassCanceled, herr.Class)
		assert.False(t, called)
	})
}

// TestEncoder 测试响应编码
func TestEncoder(t *testing.T) {
	sig, err := abicodec.ParseSignature("f() returns (uint256,string)")
	require.NoError(t, err)

	t.Run("成功编码", func(t *testing.T) {
		resp := NewEncoder(nil).Success(sig, []types.Value{types.NewUint64(1), types.NewString("ok")})
		require.True(t, resp.OK())
		decoded, err := sig.DecodeOutputs(resp.Data)
		require.NoError(t, err)
		assert.True(t, decoded[1].Equal(types.NewString("ok")))
	})

	t.Run("类型不符记录编码错误", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		resp := NewEncoder(zap.New(core)).Success(sig, []types.Value{types.NewString("wrong")})
		require.False(t, resp.OK())
		assert.Equal(t, types.ErrKindEncoding, resp.Err.Kind)
		assert.Equal(t, 500, resp.Status())

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "encoding", entries[0].ContextMap()["error_kind"])
	})

	t.Run("处理器错误", func(t *testing.T) {
		resp := NewEncoder(nil).Failure(&types.HandlerError{Message: "nope", Code: 7, Class: types.ClassClient})
		require.False(t, resp.OK())
		assert.Equal(t, "nope", resp.Err.Message)
		assert.Equal(t, int64(7), resp.Err.Code)
		assert.Equal(t, 400, resp.Status())
	})
}
