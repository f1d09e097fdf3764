package cmd

import (
	"fmt"
	"os"

	"github.com/haierkeys/fast-latex-notes/pkg/code"

	"github.com/spf13/cobra"
)

var configDefault string

// cliFlags 一次性命令共享的参数
type cliFlags struct {
	config string // 配置文件路径
	lang   string // 错误信息语言 en / zh_cn
}

var globalFlags = new(cliFlags)

var rootCmd = &cobra.Command{
	Use:   "fast-latex-notes",
	Short: "Fast LaTeX Notes: equation store and formula template catalog",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if globalFlags.lang != "" {
			if err := code.SetGlobalDefaultLang(globalFlags.lang); err != nil {
				bootstrapLogger.Warn(err.Error())
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.config, "config", "", "config file used by one-shot commands")
	pf.StringVar(&globalFlags.lang, "lang", "", "message language: en or zh_cn")
}
