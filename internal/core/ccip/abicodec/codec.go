// Package abicodec 基于 go-ethereum accounts/abi 的 ABI 编解码适配层
//
// 负责函数签名解析、选择器计算，以及 types.Value 与 ABI 字节之间的转换。
// 编码结果与 Solidity abi.encode 逐字节一致。
package abicodec

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

var (
	// ErrMalformed 输入字节不是合法的 ABI 编码
	ErrMalformed = errors.New("malformed ABI data")
	// ErrTypeMismatch 值与声明类型不符
	ErrTypeMismatch = errors.New("value does not match declared type")
)

// Decode 按参数类型列表解码 ABI 字节
//
// 超出声明位宽的整数、非 0/1 的布尔值、越界的动态偏移、
// address 与 bytesN 的非零填充均视为 ErrMalformed。
func Decode(args abi.Arguments, data []byte) (vals []types.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			vals = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	if len(args) == 0 {
		return []types.Value{}, nil
	}
	raw, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) != len(args) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrMalformed, len(args), len(raw))
	}
	if err := checkPadding(args, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	vals = make([]types.Value, len(args))
	for i, arg := range args {
		v, err := fromNative(arg.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v", ErrMalformed, i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Encode 按参数类型列表编码值序列（head/tail 元组编码）
func Encode(args abi.Arguments, vals []types.Value) ([]byte, error) {
	if len(vals) != len(args) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrTypeMismatch, len(args), len(vals))
	}
	natives := make([]interface{}, len(args))
	for i, arg := range args {
		rv, err := toNative(arg.Type, vals[i])
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrTypeMismatch, i, err)
		}
		natives[i] = rv.Interface()
	}
	out, err := args.Pack(natives...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return out, nil
}

// DecodeInputs 解码请求参数（不含选择器）
func (s *Signature) DecodeInputs(data []byte) ([]types.Value, error) {
	return Decode(s.Inputs, data)
}

// EncodeOutputs 按 returns 类型编码处理器返回值
func (s *Signature) EncodeOutputs(vals []types.Value) ([]byte, error) {
	return Encode(s.Outputs, vals)
}

// EncodeCall 构造完整调用数据：选择器 + 编码后的参数
func (s *Signature) EncodeCall(vals ...types.Value) ([]byte, error) {
	body, err := Encode(s.Inputs, vals)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, types.SelectorLength+len(body))
	out = append(out, s.Selector[:]...)
	return append(out, body...), nil
}

// DecodeOutputs 解码处理器结果，供客户端与测试使用
func (s *Signature) DecodeOutputs(data []byte) ([]types.Value, error) {
	return Decode(s.Outputs, data)
}
