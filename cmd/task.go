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

	"github.com/daiguadaidai/go-d-console/parser"
	"github.com/daiguadaidai/go-d-console/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	taskId        int64
	taskTableName string

	listParser       *parser.ListParser
	monitorParser    *parser.MonitorParser
	addTaskParser    *parser.TaskParser
	updateTaskParser *parser.TaskParser
)

// 同步任务管理
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "同步任务管理",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "同步任务列表",
	Long: `同步任务列表, 指定 --watch 之后每 30 秒刷新一次, 并可以输入命令操作任务:

./go-d-console task list --search=order --status=1

./go-d-console task list --watch --interval=10
    `,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		dumpIfVerbose(listParser)
		exitIfErr(console.ListTasks(ctx, listParser))
	},
}

var taskGetCmd = &cobra.Command{
	Use:   "get",
	Short: "查看任务配置",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.GetTask(context.Background(), taskId))
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "添加同步任务",
	Long: `添加同步任务, 同步的表必须在源数据库中存在:

./go-d-console task add \
    --name=order-sync \
    --source-db-id=1 \
    --target-db-id=2 \
    --sync-type=1 \
    --tables="user,order" \
    --startup-options='{"type":"initial"}'
    `,
	Run: func(cmd *cobra.Command, args []string) {
		dumpIfVerbose(addTaskParser)
		exitIfErr(console.AddTask(context.Background(), addTaskParser))
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "修改同步任务, 运行中的任务不能修改",
	Run: func(cmd *cobra.Command, args []string) {
		dumpIfVerbose(updateTaskParser)
		exitIfErr(console.UpdateTask(context.Background(), updateTaskParser))
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "删除同步任务, 运行中的任务不能删除",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.DeleteTask(context.Background(), taskId))
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start",
	Short: "启动同步任务",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.StartTask(context.Background(), taskId))
	},
}

var taskStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "停止同步任务",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.StopTask(context.Background(), taskId))
	},
}

var taskMonitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "任务监控",
	Long: `查看单个任务的同步进度, 默认每 10 秒刷新一次:

./go-d-console task monitor --id=1

./go-d-console task monitor --id=1 --once
    `,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		dumpIfVerbose(monitorParser)
		exitIfErr(console.MonitorTask(ctx, monitorParser))
	},
}

var taskErrorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "查看任务异常记录",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.TaskErrors(context.Background(), taskId, taskTableName))
	},
}

/* 任务字段的 flags
Params:
    _flags: 命令的 flags
    _parser: 接收参数
    _syncTypeDefault: 修改任务时为 -1, 表示不修改
*/
func addTaskFlags(_flags *pflag.FlagSet, _parser *parser.TaskParser, _syncTypeDefault int) {
	_flags.StringVar(&_parser.TaskName, "name", "", "任务名称, 2~50个字符")
	_flags.Int64Var(&_parser.SourceDbId, "source-db-id", 0, "源数据库ID")
	_flags.Int64Var(&_parser.TargetDbId, "target-db-id", 0, "目标数据库ID")
	_flags.IntVar(&_parser.SyncType, "sync-type", _syncTypeDefault, "同步类型. 0: 全量同步, 1: 增量同步")
	_flags.StringVar(&_parser.Tables, "tables", "",
		`同步的表, 逗号分隔 或 json 数组: [{"sourceTable":"a","targetTable":"b"}]`)
	_flags.StringVar(&_parser.StartupOptions, "startup-options", "",
		`启动选项 json, 默认: {"type":"initial"}`)
}

func init() {
	taskCmd.AddCommand(taskListCmd, taskGetCmd, taskAddCmd, taskUpdateCmd, taskDeleteCmd,
		taskStartCmd, taskStopCmd, taskMonitorCmd, taskErrorsCmd)

	listParser = new(parser.ListParser)
	taskListCmd.Flags().StringVar(&listParser.Search, "search", "", "按任务名称过滤, 不区分大小写")
	taskListCmd.Flags().IntVar(&listParser.Status, "status", parser.ALL_STATUS,
		"按状态过滤, -1 表示全部. "+service.TaskStatusHelp())
	taskListCmd.Flags().BoolVar(&listParser.Watch, "watch", false, "持续刷新, 并可以输入命令操作任务")
	taskListCmd.Flags().IntVar(&listParser.Interval, "interval", 0, "刷新间隔(秒), 默认使用配置文件中的值")

	for _, c := range []*cobra.Command{taskGetCmd, taskDeleteCmd, taskStartCmd, taskStopCmd, taskErrorsCmd} {
		c.Flags().Int64Var(&taskId, "id", 0, "任务ID")
	}
	taskErrorsCmd.Flags().StringVar(&taskTableName, "table", "", "表名, 不指定则查看整个任务的异常记录")

	monitorParser = new(parser.MonitorParser)
	taskMonitorCmd.Flags().Int64Var(&monitorParser.TaskId, "id", 0, "任务ID")
	taskMonitorCmd.Flags().IntVar(&monitorParser.Interval, "interval", 0, "刷新间隔(秒), 默认使用配置文件中的值")
	taskMonitorCmd.Flags().BoolVar(&monitorParser.Once, "once", false, "只获取一次")

	addTaskParser = new(parser.TaskParser)
	addTaskFlags(taskAddCmd.Flags(), addTaskParser, 0)

	updateTaskParser = new(parser.TaskParser)
	taskUpdateCmd.Flags().Int64Var(&updateTaskParser.TaskId, "id", 0, "需要修改的任务ID")
	addTaskFlags(taskUpdateCmd.Flags(), updateTaskParser, -1)
}
