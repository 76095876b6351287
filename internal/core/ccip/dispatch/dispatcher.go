// Package dispatch 实现一次 CCIP-Read 请求的解码、分发与响应编码
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/registry"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// 处理器 panic 时返回给客户端的消息，不暴露内部细节
const panicMessage = "Unexpected error"

type handlerResult struct {
	vals []types.Value
	err  error
}

// Dispatcher 在独立 goroutine 中执行处理器，并等待结果或上下文结束
type Dispatcher struct {
	logger  *zap.Logger
	timeout time.Duration // 0 表示只受调用方上下文约束
}

// NewDispatcher 创建分发器
func NewDispatcher(logger *zap.Logger, timeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger, timeout: timeout}
}

// Dispatch 调用处理器
//
// 普通 error 转换为服务端错误并保留原始消息；*types.HandlerError 原样透传；
// 上下文取消或超时分别归类为 Canceled / Timeout。
func (d *Dispatcher) Dispatch(ctx context.Context, req *types.DecodedRequest, h *registry.Handler) ([]types.Value, *types.HandlerError) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	// 缓冲为1，调用方提前返回时处理器 goroutine 仍可写入并退出
	resCh := make(chan handlerResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				d.logger.Error("CCIP handler panic recovered",
					zap.Any("panic", rec),
					zap.String("selector", req.Selector.Hex()),
					zap.String("signature", req.Signature),
					zap.ByteString("stack", debug.Stack()),
				)
				resCh <- handlerResult{err: types.ServerError(panicMessage)}
			}
		}()
		vals, err := h.Fn(ctx, req)
		resCh <- handlerResult{vals: vals, err: err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil && !isNilHandlerError(res.err) {
			return nil, d.classify(ctx, res.err)
		}
		return res.vals, nil
	case <-ctx.Done():
		return nil, contextError(ctx.Err())
	}
}

func (d *Dispatcher) classify(ctx context.Context, err error) *types.HandlerError {
	var herr *types.HandlerError
	if errors.As(err, &herr) {
		if herr == nil {
			return &types.HandlerError{Message: "handler returned a nil *HandlerError inside a non-nil error", Class: types.ClassServer}
		}
		out := *herr
		return &out
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return contextError(ctxErr)
	}
	return &types.HandlerError{Message: err.Error(), Class: types.ClassServer}
}

// isNilHandlerError 处理器以 error 形式返回的 (*types.HandlerError)(nil) 视为成功
func isNilHandlerError(err error) bool {
	herr, ok := err.(*types.HandlerError)
	return ok && herr == nil
}

func contextError(err error) *types.HandlerError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &types.HandlerError{Message: "handler timed out", Class: types.ClassTimeout}
	}
	return &types.HandlerError{Message: fmt.Sprintf("request canceled: %v", err), Class: types.ClassCanceled}
}
