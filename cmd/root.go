// Copyright © 2018 NAME HERE <EMAIL ADDRESS>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/service"
	"github.com/daiguadaidai/go-d-console/setting"
	"github.com/juju/errors"
	"github.com/liudng/godump"
	"github.com/outbrain/golib/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	assumeYes  bool
	verbose    bool

	console *service.Console
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "go-d-console",
	Short: "数据同步平台管理控制台",
	Long: `
    数据同步平台的命令行管理控制台.
    管理数据库连接和同步任务, 查看任务列表和单个任务的同步进度.
    `,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		s, err := loadSetting()
		if err != nil {
			log.Fatalf("%v", err)
		}
		logger.InitLogger(&s.Log)

		console = service.NewConsole(s, os.Stdin, os.Stdout, os.Stderr)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// 查看最终生效的配置, configCmd 是 rootCmd 的一个子命令
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "查看生效的配置",
	Long: `显示 配置文件, 环境变量(GDC_ 前缀) 和 默认值 合并之后的配置:

./go-d-console config --config=console.yaml
    `,
	Run: func(cmd *cobra.Command, args []string) {
		godump.Dump(console.Setting)
	},
}

func loadSetting() (*setting.Setting, error) {
	s, err := setting.LoadSetting(configFile)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if assumeYes {
		s.Console.AssumeYes = true
	}
	if verbose {
		s.Log.LogLevel = setting.DEBUG_LEVEL_STR
	}

	return s, nil
}

// --verbose 时打印解析的命令参数
func dumpIfVerbose(_v interface{}) {
	if verbose {
		godump.Dump(_v)
	}
}

// 命令执行出错直接退出
func exitIfErr(_err error) {
	if _err == nil {
		return
	}
	logger.M.Debugf("%v", errors.ErrorStack(_err))
	logger.Sync()
	log.Fatalf("%v", _err)
}

// 收到中断信号时取消, 用于 watch/monitor 这类持续运行的命令
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"配置文件(yaml), 不指定则只使用环境变量和默认值")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"启动/停止/删除 不再询问确认")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"输出 debug 日志")

	// 添加 db, task, config 子命令
	rootCmd.AddCommand(dbCmd, taskCmd, configCmd)
}
