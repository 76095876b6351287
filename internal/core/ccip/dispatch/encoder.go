package dispatch

import (
	"errors"

	"go.uber.org/zap"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// 编码失败时返回给客户端的消息
const encodingFailureMessage = "Internal error: handler result does not match declared return types"

// Encoder 响应编码器
type Encoder struct {
	logger *zap.Logger
}

// NewEncoder 创建响应编码器
func NewEncoder(logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{logger: logger}
}

// Success 按 returns 类型编码处理器结果
//
// 类型不符属于处理器实现缺陷，记录 error_kind=encoding 日志并返回 500。
func (e *Encoder) Success(sig *abicodec.Signature, vals []types.Value) *types.CCIPResponse {
	data, err := sig.EncodeOutputs(vals)
	if err != nil {
		encErr := &EncodingError{Sig: sig.String(), Cause: err}
		e.logger.Error("CCIP handler result encoding failed",
			zap.String("error_kind", string(types.ErrKindEncoding)),
			zap.String("selector", sig.Selector.Hex()),
			zap.String("signature", sig.String()),
			zap.Error(encErr),
		)
		return types.ErrorResponse(&types.GatewayError{
			Kind:    types.ErrKindEncoding,
			Class:   types.ClassServer,
			Message: encodingFailureMessage,
		})
	}
	return types.DataResponse(data)
}

// Failure 将处理器错误包装为响应
func (e *Encoder) Failure(herr *types.HandlerError) *types.CCIPResponse {
	return types.ErrorResponse(&types.GatewayError{
		Kind:    types.ErrKindHandler,
		Class:   herr.Class,
		Message: herr.Message,
		Code:    herr.Code,
	})
}

// RequestFailure 将解码阶段错误包装为响应
func (e *Encoder) RequestFailure(err error) *types.CCIPResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return types.ErrorResponse(reqErr.GatewayError())
	}
	return types.ErrorResponse(&types.GatewayError{
		Kind:    types.ErrKindDecodeFailed,
		Class:   types.ClassClient,
		Message: err.Error(),
	})
}
