package registry

import (
	"sync"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// Builder 处理器表构建器
//
// 注册过程可以并发调用；Build 之后构建器被冻结，后续注册返回 ErrRegistrySealed。
type Builder struct {
	mu       sync.Mutex
	handlers map[types.Selector]*Handler
	built    *Registry
}

// NewBuilder 创建构建器
func NewBuilder() *Builder {
	return &Builder{handlers: make(map[types.Selector]*Handler)}
}

// Register 按签名文本注册处理器
func (b *Builder) Register(signature string, fn ccip.HandlerFunc) error {
	sig, err := abicodec.ParseSignature(signature)
	if err != nil {
		return &ConfigError{Kind: ErrBadSignature, Signature: signature, Cause: err}
	}
	return b.insert(signature, sig, fn)
}

// RegisterABI 按 JSON ABI 中的函数名注册处理器
func (b *Builder) RegisterABI(abiJSON string, method string, fn ccip.HandlerFunc) error {
	sig, err := abicodec.SignatureFromABI(abiJSON, method)
	if err != nil {
		return &ConfigError{Kind: ErrBadSignature, Signature: method, Cause: err}
	}
	return b.insert(method, sig, fn)
}

func (b *Builder) insert(text string, sig *abicodec.Signature, fn ccip.HandlerFunc) error {
	if fn == nil {
		return &ConfigError{Kind: ErrNilHandler, Signature: text}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built != nil {
		return &ConfigError{Kind: ErrRegistrySealed, Signature: text}
	}
	if existing, ok := b.handlers[sig.Selector]; ok {
		return &ConfigError{
			Kind:      ErrDuplicateSelector,
			Signature: text,
			Detail:    sig.Selector.Hex() + " already registered by " + existing.Signature.String(),
		}
	}
	b.handlers[sig.Selector] = &Handler{Signature: sig, Fn: fn}
	return nil
}

// Build 冻结构建器并返回只读处理器表，重复调用返回同一实例
func (b *Builder) Build() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built == nil {
		b.built = &Registry{handlers: b.handlers}
		b.handlers = nil
	}
	return b.built
}

// Sealed 是否已冻结
func (b *Builder) Sealed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.built != nil
}

// Infos 返回当前已注册处理器的描述（未冻结时同样可用）
func (b *Builder) Infos() []types.HandlerInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built != nil {
		return b.built.Infos()
	}
	view := &Registry{handlers: b.handlers}
	return view.Infos()
}
