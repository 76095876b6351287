// ccip-gateway 是 EIP-3668 CCIP-Read 网关的命令行入口
package main

func main() {
	Execute()
}
