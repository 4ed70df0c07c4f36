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
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	dbSearch    string
	dbId        int64
	dbTableName string

	addDatabaseParser    *parser.DatabaseParser
	updateDatabaseParser *parser.DatabaseParser
	testDatabaseParser   *parser.DatabaseParser
)

// 数据库连接管理
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库连接管理",
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "数据库连接列表",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.ListDatabases(context.Background(), dbSearch))
	},
}

var dbGetCmd = &cobra.Command{
	Use:   "get",
	Short: "查看数据库连接",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.GetDatabase(context.Background(), dbId))
	},
}

var dbAddCmd = &cobra.Command{
	Use:   "add",
	Short: "添加数据库连接",
	Long: `添加数据库连接:

./go-d-console db add --dsn="root:123456@tcp(10.0.0.1:3306)/shop" --param="useSSL=false"

./go-d-console db add \
    --host=10.0.0.1 \
    --port=3306 \
    --db-name=shop \
    --username=root \
    --password=123456
    `,
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.AddDatabase(context.Background(), addDatabaseParser))
	},
}

var dbUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "修改数据库连接, 没有指定的字段不修改",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.UpdateDatabase(context.Background(), updateDatabaseParser))
	},
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "删除数据库连接",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.DeleteDatabase(context.Background(), dbId))
	},
}

var dbEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "启用数据库连接",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.SetDatabaseStatus(context.Background(), dbId, true))
	},
}

var dbDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "停用数据库连接",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.SetDatabaseStatus(context.Background(), dbId, false))
	},
}

var dbTestCmd = &cobra.Command{
	Use:   "test",
	Short: "测试数据库连接",
	Long: `测试数据库连接, 可以测试已保存的连接, 也可以测试还没有保存的连接:

./go-d-console db test --id=1

./go-d-console db test --dsn="root:123456@tcp(10.0.0.1:3306)/shop"
    `,
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.TestDatabase(context.Background(), testDatabaseParser))
	},
}

var dbTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "数据库中所有的表",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.ListTables(context.Background(), dbId))
	},
}

var dbColumnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "表的字段信息",
	Run: func(cmd *cobra.Command, args []string) {
		exitIfErr(console.ListColumns(context.Background(), dbId, dbTableName))
	},
}

/* 数据库连接字段的 flags
Params:
    _flags: 命令的 flags
    _parser: 接收参数
*/
func addDatabaseFlags(_flags *pflag.FlagSet, _parser *parser.DatabaseParser) {
	_flags.StringVar(&_parser.Dsn, "dsn", "",
		"连接串, 如: user:password@tcp(host:port)/dbName?param=value")
	_flags.StringVar(&_parser.Host, "host", "", "主机地址")
	_flags.Int64Var(&_parser.Port, "port", 0, "端口, 默认: 3306")
	_flags.StringVar(&_parser.DbName, "db-name", "", "数据库名称")
	_flags.StringVar(&_parser.Username, "username", "", "用户名")
	_flags.StringVar(&_parser.Password, "password", "", "密码")
	_flags.StringVar(&_parser.Param, "param", "",
		"额外连接参数, 如: useSSL=false&serverTimezone=Asia/Shanghai")
}

func init() {
	dbCmd.AddCommand(dbListCmd, dbGetCmd, dbAddCmd, dbUpdateCmd, dbDeleteCmd,
		dbEnableCmd, dbDisableCmd, dbTestCmd, dbTablesCmd, dbColumnsCmd)

	dbListCmd.Flags().StringVar(&dbSearch, "search", "", "按 主机/数据库名/参数 过滤")

	for _, c := range []*cobra.Command{dbGetCmd, dbDeleteCmd, dbEnableCmd, dbDisableCmd, dbTablesCmd, dbColumnsCmd} {
		c.Flags().Int64Var(&dbId, "id", 0, "数据库连接ID")
	}
	dbColumnsCmd.Flags().StringVar(&dbTableName, "table", "", "表名")

	addDatabaseParser = new(parser.DatabaseParser)
	addDatabaseFlags(dbAddCmd.Flags(), addDatabaseParser)
	dbAddCmd.Flags().BoolVar(&addDatabaseParser.Disabled, "disabled", false, "添加之后停用")

	updateDatabaseParser = new(parser.DatabaseParser)
	dbUpdateCmd.Flags().Int64Var(&updateDatabaseParser.Id, "id", 0, "需要修改的数据库连接ID")
	addDatabaseFlags(dbUpdateCmd.Flags(), updateDatabaseParser)

	testDatabaseParser = new(parser.DatabaseParser)
	dbTestCmd.Flags().Int64Var(&testDatabaseParser.Id, "id", 0, "已保存的数据库连接ID")
	addDatabaseFlags(dbTestCmd.Flags(), testDatabaseParser)
}
