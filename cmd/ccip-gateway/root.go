package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath string // 配置文件路径
	Env        string // 未指定配置文件时使用的嵌入配置环境
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "ccip-gateway",
	Short: "EIP-3668 CCIP-Read 网关",
	Long: `ccip-gateway - 为链上合约提供链下数据的 CCIP-Read（EIP-3668）网关

合约通过 OffchainLookup 回退将调用数据交给网关，网关按4字节选择器
分发到已注册的处理器，再把 ABI 编码后的结果返回给客户端。

常用命令:
  ccip-gateway serve --config gateway.json   # 启动网关
  ccip-gateway selector "addr(bytes32)"      # 计算函数选择器
  ccip-gateway handlers                      # 列出内置处理器`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", pterm.Red("错误:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "配置文件路径 (也可通过 CCIP_GATEWAY_CONFIG 指定)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Env, "env", "dev", "未指定配置文件时使用的嵌入配置: dev|prod")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(selectorCmd)
	rootCmd.AddCommand(handlersCmd)
	rootCmd.AddCommand(versionCmd)
}
