package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/ccip-gateway/configs"
	"github.com/weisyn/ccip-gateway/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动网关 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := appOptions(globalFlags)
		if err != nil {
			return err
		}

		gw, err := app.Start(opts...)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("CCIP gateway listening on %s", gw.HTTPAddr())
		renderHandlers(handlerInfoRows(gw.Gateway().Handlers()))

		gw.Wait()
		return nil
	},
}

// appOptions 根据全局标志组装应用选项
func appOptions(flags GlobalFlags) ([]app.Option, error) {
	if flags.ConfigPath != "" {
		return []app.Option{app.WithConfigFile(flags.ConfigPath)}, nil
	}
	embedded := configs.ForEnvironment(flags.Env)
	if embedded == nil {
		return nil, fmt.Errorf("unknown environment %q (expected dev or prod)", flags.Env)
	}
	return []app.Option{app.WithEmbeddedConfig(embedded)}, nil
}
