package abicodec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const wordSize = 32

// checkPadding 校验 address 与 bytesN 字的填充位
//
// go-ethereum 解码时直接截取有效字节，高位(address)或低位(bytesN)的非零填充会被静默丢弃。
// Unpack 成功后调用，此时偏移与长度已通过边界检查。
func checkPadding(args abi.Arguments, data []byte) error {
	return checkSequence(len(args), func(i int) abi.Type { return args[i].Type }, data, 0)
}

// checkSequence 校验以 base 为起点的一段 head/tail 编码，动态偏移相对于 base
func checkSequence(n int, typeAt func(int) abi.Type, data []byte, base int) error {
	off := base
	for i := 0; i < n; i++ {
		t := typeAt(i)
		if isDynamic(t) {
			ptr, err := readInt(data, off)
			if err != nil {
				return err
			}
			if err := checkDynamic(t, data, base+ptr); err != nil {
				return err
			}
			off += wordSize
			continue
		}
		if err := checkStatic(t, data, off); err != nil {
			return err
		}
		off += headSize(t)
	}
	return nil
}

func checkStatic(t abi.Type, data []byte, off int) error {
	switch t.T {
	case abi.AddressTy:
		w, err := readWord(data, off)
		if err != nil {
			return err
		}
		if !allZero(w[:wordSize-20]) {
			return fmt.Errorf("address at offset %d has non-zero high bytes", off)
		}
	case abi.FixedBytesTy:
		w, err := readWord(data, off)
		if err != nil {
			return err
		}
		if !allZero(w[t.Size:]) {
			return fmt.Errorf("%s at offset %d has non-zero padding", t.String(), off)
		}
	case abi.ArrayTy:
		step := headSize(*t.Elem)
		for i := 0; i < t.Size; i++ {
			if err := checkStatic(*t.Elem, data, off+i*step); err != nil {
				return err
			}
		}
	case abi.TupleTy:
		for _, et := range t.TupleElems {
			if err := checkStatic(*et, data, off); err != nil {
				return err
			}
			off += headSize(*et)
		}
	}
	return nil
}

func checkDynamic(t abi.Type, data []byte, start int) error {
	switch t.T {
	case abi.SliceTy:
		n, err := readInt(data, start)
		if err != nil {
			return err
		}
		return checkSequence(n, func(int) abi.Type { return *t.Elem }, data, start+wordSize)
	case abi.ArrayTy:
		return checkSequence(t.Size, func(int) abi.Type { return *t.Elem }, data, start)
	case abi.TupleTy:
		return checkSequence(len(t.TupleElems), func(i int) abi.Type { return *t.TupleElems[i] }, data, start)
	}
	// string 与 bytes 不含定长字段
	return nil
}

func isDynamic(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy:
		return true
	case abi.ArrayTy:
		return isDynamic(*t.Elem)
	case abi.TupleTy:
		for _, et := range t.TupleElems {
			if isDynamic(*et) {
				return true
			}
		}
	}
	return false
}

// headSize 类型在 head 区占用的字节数
func headSize(t abi.Type) int {
	if isDynamic(t) {
		return wordSize
	}
	switch t.T {
	case abi.ArrayTy:
		return t.Size * headSize(*t.Elem)
	case abi.TupleTy:
		size := 0
		for _, et := range t.TupleElems {
			size += headSize(*et)
		}
		return size
	}
	return wordSize
}

func readWord(data []byte, off int) ([]byte, error) {
	if off < 0 || off+wordSize > len(data) {
		return nil, fmt.Errorf("word at offset %d exceeds %d bytes", off, len(data))
	}
	return data[off : off+wordSize], nil
}

// readInt 读取偏移或长度字，取值不超过数据长度
func readInt(data []byte, off int) (int, error) {
	w, err := readWord(data, off)
	if err != nil {
		return 0, err
	}
	x := new(big.Int).SetBytes(w)
	if !x.IsInt64() || x.Int64() > int64(len(data)) {
		return 0, fmt.Errorf("offset or length %s at %d out of bounds", x, off)
	}
	return int(x.Int64()), nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
