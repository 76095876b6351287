// Package handlers 提供可通过配置启用的内置处理器
//
//   - echo(bytes) returns (bytes)：原样返回输入，用于连通性检查
//   - add(uint256,uint256) returns (uint256)
//   - getBalance(address) returns (uint256)：通过 JSON-RPC 读取节点上的账户余额
package handlers

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// 内置处理器名称与签名
const (
	NameEcho       = "echo"
	NameAdd        = "add"
	NameGetBalance = "getBalance"

	EchoSignature       = "echo(bytes) returns (bytes)"
	AddSignature        = "add(uint256,uint256) returns (uint256)"
	GetBalanceSignature = "getBalance(address) returns (uint256)"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// BalanceReader 读取账户余额，*ethclient.Client 满足该接口
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Deps 内置处理器的外部依赖
type Deps struct {
	Balances BalanceReader // 仅 getBalance 需要
}

// Names 返回全部内置处理器名称
func Names() []string {
	return []string{NameEcho, NameAdd, NameGetBalance}
}

// Signature 返回内置处理器的签名
func Signature(name string) (string, bool) {
	switch name {
	case NameEcho:
		return EchoSignature, true
	case NameAdd:
		return AddSignature, true
	case NameGetBalance:
		return GetBalanceSignature, true
	}
	return "", false
}

// Register 按名称注册内置处理器
func Register(r ccip.Registrar, names []string, deps Deps) error {
	for _, name := range names {
		sig, ok := Signature(name)
		if !ok {
			return fmt.Errorf("unknown built-in handler %q", name)
		}

		var fn ccip.HandlerFunc
		switch name {
		case NameEcho:
			fn = Echo
		case NameAdd:
			fn = Add
		case NameGetBalance:
			if deps.Balances == nil {
				return fmt.Errorf("handler %q requires a balance reader", name)
			}
			fn = GetBalance(deps.Balances)
		}

		if err := r.Add(sig, fn); err != nil {
			return fmt.Errorf("register handler %q: %w", name, err)
		}
	}
	return nil
}

// Echo 原样返回 bytes 参数
func Echo(_ context.Context, req *types.DecodedRequest) ([]types.Value, error) {
	in, _ := req.Arg(0)
	return []types.Value{types.NewBytes(in.Bytes)}, nil
}

// Add 返回两个 uint256 之和，溢出时按客户端错误处理
func Add(_ context.Context, req *types.DecodedRequest) ([]types.Value, error) {
	a, _ := req.Arg(0)
	b, _ := req.Arg(1)
	sum := new(big.Int).Add(a.Int, b.Int)
	if sum.Cmp(maxUint256) > 0 {
		return nil, types.ClientError("uint256 overflow")
	}
	return []types.Value{types.NewUint(sum)}, nil
}

// GetBalance 返回读取最新区块余额的处理器
func GetBalance(reader BalanceReader) ccip.HandlerFunc {
	return func(ctx context.Context, req *types.DecodedRequest) ([]types.Value, error) {
		account, _ := req.Arg(0)
		balance, err := reader.BalanceAt(ctx, account.Addr, nil)
		if err != nil {
			return nil, fmt.Errorf("balance lookup failed: %w", err)
		}
		return []types.Value{types.NewUint(balance)}, nil
	}
}
