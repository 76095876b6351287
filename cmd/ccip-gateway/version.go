package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/ccip-gateway/internal/app/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Println(version.GetFullVersion())
	},
}
