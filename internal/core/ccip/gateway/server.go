// Package gateway 实现 CCIP-Read 网关门面
//
// Server 组合处理器注册表、请求解码器、分发器与响应编码器：
//
//	callData → Decoder → Dispatcher → Encoder → *types.CCIPResponse
//
// 启动期调用 Add / AddABI 注册处理器，Seal（或首次 Call）之后处理器表不可变，
// Call 可被任意多个 goroutine 并发调用。
package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/dispatch"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/registry"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// Config 网关门面配置
type Config struct {
	// HandlerTimeout 单个处理器的执行上限，0 表示只受调用方上下文约束
	HandlerTimeout time.Duration

	// Registerer 指标注册器，nil 时不采集指标
	Registerer prometheus.Registerer
}

// Server 网关门面
type Server struct {
	logger     *zap.Logger
	builder    *registry.Builder
	dispatcher *dispatch.Dispatcher
	encoder    *dispatch.Encoder
	metrics    *gatewayMetrics

	sealOnce sync.Once
	decoder  *dispatch.Decoder
}

var _ ccip.Gateway = (*Server)(nil)

// NewServer 创建网关门面
func NewServer(logger *zap.Logger, cfg Config) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:     logger,
		builder:    registry.NewBuilder(),
		dispatcher: dispatch.NewDispatcher(logger, cfg.HandlerTimeout),
		encoder:    dispatch.NewEncoder(logger),
		metrics:    newGatewayMetrics(cfg.Registerer),
	}
}

// Add 按 Solidity 函数签名注册处理器
func (s *Server) Add(signature string, fn ccip.HandlerFunc) error {
	if err := s.builder.Register(signature, fn); err != nil {
		return err
	}
	s.logger.Debug("CCIP handler registered", zap.String("signature", signature))
	return nil
}

// AddABI 按 JSON ABI 中的函数名注册处理器
func (s *Server) AddABI(abiJSON string, method string, fn ccip.HandlerFunc) error {
	if err := s.builder.RegisterABI(abiJSON, method, fn); err != nil {
		return err
	}
	s.logger.Debug("CCIP handler registered from ABI", zap.String("method", method))
	return nil
}

// Seal 冻结处理器表，重复调用无副作用
func (s *Server) Seal() {
	s.sealOnce.Do(func() {
		reg := s.builder.Build()
		s.decoder = dispatch.NewDecoder(reg)
		s.logger.Info("CCIP handler registry sealed", zap.Int("handlers", reg.Len()))
	})
}

// Sealed 处理器表是否已冻结
func (s *Server) Sealed() bool {
	return s.builder.Sealed()
}

// Handlers 返回已注册处理器的描述
func (s *Server) Handlers() []types.HandlerInfo {
	return s.builder.Infos()
}

// Call 处理一次请求
//
// 所有失败都体现在返回的 CCIPResponse.Err 中，Call 本身从不失败。
func (s *Server) Call(ctx context.Context, sender common.Address, callData []byte) *types.CCIPResponse {
	s.Seal()

	req, h, err := s.decoder.Decode(sender, callData)
	if err != nil {
		resp := s.encoder.RequestFailure(err)
		s.metrics.observeCall(requestErrorLabel(err), resp.Status(), string(resp.Err.Kind))
		s.logger.Debug("CCIP request rejected",
			zap.String("sender", sender.Hex()),
			zap.Int("status", resp.Status()),
			zap.String("error_kind", string(resp.Err.Kind)),
			zap.String("reason", resp.Err.Message),
		)
		return resp
	}

	selector := req.Selector.Hex()
	start := time.Now()
	vals, herr := s.dispatcher.Dispatch(ctx, req, h)
	elapsed := time.Since(start)
	s.metrics.observeHandler(selector, elapsed)

	var resp *types.CCIPResponse
	if herr != nil {
		resp = s.encoder.Failure(herr)
		s.logHandlerError(req, herr, elapsed)
	} else {
		resp = s.encoder.Success(h.Signature, vals)
	}

	kind := kindNone
	if !resp.OK() {
		kind = string(resp.Err.Kind)
	}
	s.metrics.observeCall(selector, resp.Status(), kind)
	return resp
}

func (s *Server) logHandlerError(req *types.DecodedRequest, herr *types.HandlerError, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("selector", req.Selector.Hex()),
		zap.String("signature", req.Signature),
		zap.String("sender", req.Sender.Hex()),
		zap.String("class", herr.Class.String()),
		zap.String("reason", herr.Message),
		zap.Duration("elapsed", elapsed),
	}
	if herr.HasCode() {
		fields = append(fields, zap.Int64("code", herr.Code))
	}
	if herr.Class == types.ClassServer || herr.Class == types.ClassTimeout {
		s.logger.Warn("CCIP handler failed", fields...)
		return
	}
	s.logger.Debug("CCIP handler failed", fields...)
}

// requestErrorLabel 解码失败时的选择器标签
func requestErrorLabel(err error) string {
	var reqErr *dispatch.RequestError
	if !errors.As(err, &reqErr) {
		return selectorNone
	}
	switch reqErr.Kind {
	case types.ErrKindTooShort:
		return selectorNone
	case types.ErrKindUnknownSelector:
		return selectorUnknown
	default:
		return reqErr.Selector.Hex()
	}
}
