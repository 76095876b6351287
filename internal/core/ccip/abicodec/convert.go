package abicodec

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

var (
	bigOne     = big.NewInt(1)
	bigIntType = reflect.TypeOf((*big.Int)(nil))
)

// fromNative 将 abi.Unpack 产出的 Go 值转换为 types.Value
func fromNative(t abi.Type, native interface{}) (types.Value, error) {
	return fromReflect(t, reflect.ValueOf(native))
}

func fromReflect(t abi.Type, rv reflect.Value) (types.Value, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		x, err := reflectToBig(rv)
		if err != nil {
			return types.Value{}, err
		}
		if !inRange(t, x) {
			return types.Value{}, fmt.Errorf("integer %s out of range for %s", x, t.String())
		}
		if t.T == abi.UintTy {
			return types.Value{Kind: types.KindUint, Int: x}, nil
		}
		return types.Value{Kind: types.KindInt, Int: x}, nil

	case abi.BoolTy:
		return types.NewBool(rv.Bool()), nil

	case abi.StringTy:
		return types.NewString(rv.String()), nil

	case abi.AddressTy:
		addr, ok := rv.Interface().(common.Address)
		if !ok {
			return types.Value{}, fmt.Errorf("unexpected address representation %s", rv.Type())
		}
		return types.NewAddress(addr), nil

	case abi.FixedBytesTy:
		b := make([]byte, rv.Len())
		for i := range b {
			b[i] = byte(rv.Index(i).Uint())
		}
		return types.Value{Kind: types.KindFixedBytes, Bytes: b}, nil

	case abi.BytesTy:
		return types.NewBytes(rv.Bytes()), nil

	case abi.SliceTy, abi.ArrayTy:
		elems := make([]types.Value, rv.Len())
		for i := range elems {
			v, err := fromReflect(*t.Elem, rv.Index(i))
			if err != nil {
				return types.Value{}, err
			}
			elems[i] = v
		}
		return types.NewArray(elems...), nil

	case abi.TupleTy:
		if rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		elems := make([]types.Value, len(t.TupleElems))
		for i, et := range t.TupleElems {
			v, err := fromReflect(*et, rv.Field(i))
			if err != nil {
				return types.Value{}, err
			}
			elems[i] = v
		}
		return types.NewTuple(elems...), nil
	}
	return types.Value{}, fmt.Errorf("unsupported ABI type %s", t.String())
}

func reflectToBig(rv reflect.Value) (*big.Int, error) {
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Ptr:
		if x, ok := rv.Interface().(*big.Int); ok && x != nil {
			return new(big.Int).Set(x), nil
		}
	}
	return nil, fmt.Errorf("unexpected integer representation %s", rv.Type())
}

// inRange 检查整数是否落在声明位宽内
func inRange(t abi.Type, x *big.Int) bool {
	if t.T == abi.UintTy {
		return x.Sign() >= 0 && x.BitLen() <= t.Size
	}
	limit := new(big.Int).Lsh(bigOne, uint(t.Size-1))
	return x.Cmp(limit) < 0 && x.Cmp(new(big.Int).Neg(limit)) >= 0
}

// toNative 将 types.Value 转换为 abi.Pack 期望的 Go 值
//
// 构造出的反射值类型与 t.GetType() 完全一致，满足 go-ethereum 的类型检查。
func toNative(t abi.Type, v types.Value) (reflect.Value, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		if v.Kind != types.KindUint && v.Kind != types.KindInt {
			return reflect.Value{}, kindErr(t, v)
		}
		if v.Int == nil {
			return reflect.Value{}, fmt.Errorf("nil integer for %s", t.String())
		}
		if !inRange(t, v.Int) {
			return reflect.Value{}, fmt.Errorf("integer %s out of range for %s", v.Int, t.String())
		}
		goType := t.GetType()
		if goType == bigIntType {
			return reflect.ValueOf(new(big.Int).Set(v.Int)), nil
		}
		rv := reflect.New(goType).Elem()
		if t.T == abi.UintTy {
			rv.SetUint(v.Int.Uint64())
		} else {
			rv.SetInt(v.Int.Int64())
		}
		return rv, nil

	case abi.BoolTy:
		if v.Kind != types.KindBool {
			return reflect.Value{}, kindErr(t, v)
		}
		return reflect.ValueOf(v.Bool), nil

	case abi.StringTy:
		if v.Kind != types.KindString {
			return reflect.Value{}, kindErr(t, v)
		}
		return reflect.ValueOf(v.Str), nil

	case abi.AddressTy:
		if v.Kind != types.KindAddress {
			return reflect.Value{}, kindErr(t, v)
		}
		return reflect.ValueOf(v.Addr), nil

	case abi.FixedBytesTy:
		if v.Kind != types.KindFixedBytes {
			return reflect.Value{}, kindErr(t, v)
		}
		if len(v.Bytes) != t.Size {
			return reflect.Value{}, fmt.Errorf("%s expects %d bytes, got %d", t.String(), t.Size, len(v.Bytes))
		}
		rv := reflect.New(t.GetType()).Elem()
		for i, b := range v.Bytes {
			rv.Index(i).SetUint(uint64(b))
		}
		return rv, nil

	case abi.BytesTy:
		if v.Kind != types.KindBytes {
			return reflect.Value{}, kindErr(t, v)
		}
		b := v.Bytes
		if b == nil {
			b = []byte{}
		}
		return reflect.ValueOf(b), nil

	case abi.SliceTy:
		if v.Kind != types.KindArray {
			return reflect.Value{}, kindErr(t, v)
		}
		rv := reflect.MakeSlice(t.GetType(), len(v.Elems), len(v.Elems))
		for i, e := range v.Elems {
			ev, err := toNative(*t.Elem, e)
			if err != nil {
				return reflect.Value{}, err
			}
			rv.Index(i).Set(ev)
		}
		return rv, nil

	case abi.ArrayTy:
		if v.Kind != types.KindArray {
			return reflect.Value{}, kindErr(t, v)
		}
		if len(v.Elems) != t.Size {
			return reflect.Value{}, fmt.Errorf("%s expects %d elements, got %d", t.String(), t.Size, len(v.Elems))
		}
		rv := reflect.New(t.GetType()).Elem()
		for i, e := range v.Elems {
			ev, err := toNative(*t.Elem, e)
			if err != nil {
				return reflect.Value{}, err
			}
			rv.Index(i).Set(ev)
		}
		return rv, nil

	case abi.TupleTy:
		if v.Kind != types.KindTuple {
			return reflect.Value{}, kindErr(t, v)
		}
		if len(v.Elems) != len(t.TupleElems) {
			return reflect.Value{}, fmt.Errorf("%s expects %d fields, got %d", t.String(), len(t.TupleElems), len(v.Elems))
		}
		rv := reflect.New(t.TupleType).Elem()
		for i, et := range t.TupleElems {
			ev, err := toNative(*et, v.Elems[i])
			if err != nil {
				return reflect.Value{}, err
			}
			rv.Field(i).Set(ev)
		}
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported ABI type %s", t.String())
}

func kindErr(t abi.Type, v types.Value) error {
	return fmt.Errorf("cannot use %s value as %s", v.Kind, t.String())
}
