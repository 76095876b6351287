package dispatch

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/registry"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// Decoder 请求解码器：切分选择器、查找处理器、解码参数
type Decoder struct {
	reg *registry.Registry
}

// NewDecoder 创建请求解码器
func NewDecoder(reg *registry.Registry) *Decoder {
	return &Decoder{reg: reg}
}

// Decode 解码一次请求
//
// 失败时返回 *RequestError；成功时返回解码结果和匹配的处理器。
func (d *Decoder) Decode(sender common.Address, callData []byte) (*types.DecodedRequest, *registry.Handler, error) {
	sel, ok := types.BytesToSelector(callData)
	if !ok {
		return nil, nil, &RequestError{Kind: types.ErrKindTooShort, Length: len(callData)}
	}

	h, ok := d.reg.Lookup(sel)
	if !ok {
		return nil, nil, &RequestError{Kind: types.ErrKindUnknownSelector, Selector: sel}
	}

	args, err := h.Signature.DecodeInputs(callData[types.SelectorLength:])
	if err != nil {
		return nil, nil, &RequestError{
			Kind:     types.ErrKindDecodeFailed,
			Selector: sel,
			Sig:      h.Signature.Canonical(),
			Cause:    err,
		}
	}

	return &types.DecodedRequest{
		Sender:    sender,
		Selector:  sel,
		Signature: h.Signature.String(),
		Args:      args,
		CallData:  common.CopyBytes(callData),
	}, h, nil
}
