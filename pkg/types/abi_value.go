// Package types 提供网关对外共享的数据类型
package types

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ValueKind ABI 值的种类标签
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindUint              // uint8 ~ uint256
	KindInt               // int8 ~ int256
	KindBool              // bool
	KindAddress           // address（20字节）
	KindFixedBytes        // bytes1 ~ bytes32
	KindBytes             // bytes
	KindString            // string
	KindArray             // T[] 与 T[k]
	KindTuple             // (T1,T2,...)
)

var kindNames = map[ValueKind]string{
	KindInvalid:    "invalid",
	KindUint:       "uint",
	KindInt:        "int",
	KindBool:       "bool",
	KindAddress:    "address",
	KindFixedBytes: "fixed_bytes",
	KindBytes:      "bytes",
	KindString:     "string",
	KindArray:      "array",
	KindTuple:      "tuple",
}

// String 返回种类名称
func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value ABI 值（带标签的联合体）
//
// 具体的位宽、定长字节长度、定长数组长度由函数签名声明的类型决定，
// Value 只携带逻辑值本身。整数统一使用 *big.Int 保存，保证 256 位不丢精度。
type Value struct {
	Kind  ValueKind
	Int   *big.Int       // KindUint / KindInt
	Bool  bool           // KindBool
	Addr  common.Address // KindAddress
	Bytes []byte         // KindFixedBytes / KindBytes
	Str   string         // KindString
	Elems []Value        // KindArray / KindTuple
}

// NewUint 创建无符号整数值
func NewUint(x *big.Int) Value {
	return Value{Kind: KindUint, Int: new(big.Int).Set(x)}
}

// NewUint64 创建无符号整数值（便捷版本）
func NewUint64(x uint64) Value {
	return Value{Kind: KindUint, Int: new(big.Int).SetUint64(x)}
}

// NewInt 创建有符号整数值
func NewInt(x *big.Int) Value {
	return Value{Kind: KindInt, Int: new(big.Int).Set(x)}
}

// NewInt64 创建有符号整数值（便捷版本）
func NewInt64(x int64) Value {
	return Value{Kind: KindInt, Int: big.NewInt(x)}
}

// NewBool 创建布尔值
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewAddress 创建地址值
func NewAddress(addr common.Address) Value {
	return Value{Kind: KindAddress, Addr: addr}
}

// NewFixedBytes 创建定长字节值（bytesN），长度需与声明类型一致
func NewFixedBytes(b []byte) Value {
	return Value{Kind: KindFixedBytes, Bytes: common.CopyBytes(b)}
}

// NewBytes 创建动态字节值
func NewBytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{Kind: KindBytes, Bytes: common.CopyBytes(b)}
}

// NewString 创建字符串值
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewArray 创建数组值（动态数组与定长数组共用）
func NewArray(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Elems: elems}
}

// NewTuple 创建元组值
func NewTuple(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindTuple, Elems: elems}
}

// Equal 判断两个值在逻辑上是否相等
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindUint, KindInt:
		if v.Int == nil || o.Int == nil {
			return v.Int == o.Int
		}
		return v.Int.Cmp(o.Int) == 0
	case KindBool:
		return v.Bool == o.Bool
	case KindAddress:
		return v.Addr == o.Addr
	case KindFixedBytes, KindBytes:
		return bytes.Equal(v.Bytes, o.Bytes)
	case KindString:
		return v.Str == o.Str
	case KindArray, KindTuple:
		return ValuesEqual(v.Elems, o.Elems)
	default:
		return true
	}
}

// String 返回便于日志输出的文本形式
func (v Value) String() string {
	switch v.Kind {
	case KindUint, KindInt:
		if v.Int == nil {
			return "<nil>"
		}
		return v.Int.String()
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindAddress:
		return v.Addr.Hex()
	case KindFixedBytes, KindBytes:
		return fmt.Sprintf("0x%x", v.Bytes)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindArray, KindTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		if v.Kind == KindArray {
			return "[" + strings.Join(parts, ",") + "]"
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "<invalid>"
	}
}

// ValuesEqual 逐项比较两个值序列
func ValuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
