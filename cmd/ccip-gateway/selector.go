package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/ccip-gateway/internal/core/ccip/abicodec"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/handlers"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

var selectorCmd = &cobra.Command{
	Use:   "selector <signature>...",
	Short: "计算函数签名的4字节选择器",
	Example: `  ccip-gateway selector "addr(bytes32)"
  ccip-gateway selector "function text(bytes32 node, string key) view returns (string)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := selectorRows(args)
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Render()
	},
}

var handlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "列出可通过配置启用的内置处理器",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := builtinRows()
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Render()
	},
}

// selectorRows 生成选择器表格数据，首行为表头
func selectorRows(signatures []string) ([][]string, error) {
	rows := [][]string{{"Selector", "Canonical"}}
	for _, text := range signatures {
		sig, err := abicodec.ParseFunction(text)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", text, err)
		}
		rows = append(rows, []string{sig.Selector.Hex(), sig.Canonical()})
	}
	return rows, nil
}

// builtinRows 生成内置处理器表格数据，首行为表头
func builtinRows() ([][]string, error) {
	rows := [][]string{{"Name", "Selector", "Signature"}}
	for _, name := range handlers.Names() {
		text, _ := handlers.Signature(name)
		sel, err := abicodec.SelectorFor(text)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{name, sel.Hex(), text})
	}
	return rows, nil
}

// handlerInfoRows 将已注册处理器转换为表格数据
func handlerInfoRows(infos []types.HandlerInfo) [][]string {
	rows := [][]string{{"Selector", "Signature"}}
	for _, h := range infos {
		rows = append(rows, []string{h.Selector.Hex(), h.Signature})
	}
	return rows
}

func renderHandlers(rows [][]string) {
	if len(rows) <= 1 {
		pterm.Warning.Println("no handlers registered")
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Render()
}
