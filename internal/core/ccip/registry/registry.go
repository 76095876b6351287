// Package registry 维护选择器到处理器的映射
//
// 启动期通过 Builder 注册处理器，Build 之后得到不可变的 Registry，
// 可被并发请求无锁读取。
package registry

import (
	"sort"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// Handler 已注册的处理器
type Handler struct {
	Signature *abicodec.Signature
	Fn        ccip.HandlerFunc
}

// Info 返回处理器的描述信息
func (h *Handler) Info() types.HandlerInfo {
	return types.HandlerInfo{
		Selector:  h.Signature.Selector,
		Signature: h.Signature.String(),
		Canonical: h.Signature.Canonical(),
	}
}

// Registry 只读处理器表
type Registry struct {
	handlers map[types.Selector]*Handler
}

// Lookup 按选择器查找处理器
func (r *Registry) Lookup(sel types.Selector) (*Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[sel]
	return h, ok
}

// Len 已注册处理器数量
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handlers)
}

// Infos 返回全部处理器描述，按规范签名排序
func (r *Registry) Infos() []types.HandlerInfo {
	if r == nil {
		return nil
	}
	out := make([]types.HandlerInfo, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, h.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}
