package service

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/config"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/daiguadaidai/go-d-console/service/monitor"
)

const PROGRESS_BAR_WIDTH = 20

// 命令行表格输出, 同时作为任务列表和任务监控视图的渲染器
type Printer struct {
	mu  sync.Mutex
	Out io.Writer
}

func NewPrinter(_out io.Writer) *Printer {
	return &Printer{Out: _out}
}

func (this *Printer) newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(this.Out, 0, 4, 2, ' ', 0)
}

func (this *Printer) Infof(format string, args ...interface{}) {
	this.mu.Lock()
	defer this.mu.Unlock()

	fmt.Fprintf(this.Out, format+"\n", args...)
}

func (this *Printer) PrintDatabases(_databases []*model.Database) {
	this.mu.Lock()
	defer this.mu.Unlock()

	w := this.newTabWriter()
	fmt.Fprintln(w, "ID\t主机\t端口\t数据库\t用户名\t参数\t状态\t创建时间")
	for _, db := range _databases {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			db.Id, db.Host, db.Port, db.DbName, common.OrPlaceholder(db.Username),
			common.OrPlaceholder(db.Param), db.StatusLabel(), db.CreateTime.Format())
	}
	w.Flush()
	fmt.Fprintf(this.Out, "共 %v 个数据库连接\n", len(_databases))
}

// 数据库连接详情, 不显示密码
func (this *Printer) PrintDatabase(_database *model.Database) {
	this.mu.Lock()
	defer this.mu.Unlock()

	w := this.newTabWriter()
	fmt.Fprintf(w, "ID:\t%v\n", _database.Id)
	fmt.Fprintf(w, "地址:\t%v\n", _database.GetDisplayName())
	fmt.Fprintf(w, "用户名:\t%v\n", common.OrPlaceholder(_database.Username))
	fmt.Fprintf(w, "参数:\t%v\n", common.OrPlaceholder(_database.Param))
	fmt.Fprintf(w, "DSN:\t%v\n", _database.GetFuzzyDataSource())
	fmt.Fprintf(w, "状态:\t%v\n", _database.StatusLabel())
	fmt.Fprintf(w, "创建时间:\t%v\n", _database.CreateTime.Format())
	fmt.Fprintf(w, "更新时间:\t%v\n", _database.UpdateTime.Format())
	w.Flush()
}

func (this *Printer) PrintTables(_tables []string) {
	this.mu.Lock()
	defer this.mu.Unlock()

	for _, table := range _tables {
		fmt.Fprintln(this.Out, table)
	}
	fmt.Fprintf(this.Out, "共 %v 个表\n", len(_tables))
}

// 字段信息的结构由后端决定, 按字段名排序输出
func (this *Printer) PrintColumns(_columns []map[string]interface{}) {
	this.mu.Lock()
	defer this.mu.Unlock()

	keySet := make(map[string]bool)
	for _, column := range _columns {
		for key := range column {
			keySet[key] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w := this.newTabWriter()
	fmt.Fprintln(w, strings.Join(keys, "\t"))
	for _, column := range _columns {
		values := make([]string, 0, len(keys))
		for _, key := range keys {
			value, ok := column[key]
			if !ok || value == nil {
				values = append(values, common.PLACEHOLDER)
				continue
			}
			values = append(values, fmt.Sprintf("%v", value))
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	w.Flush()
}

// 任务列表视图渲染, 加载中不输出
func (this *Printer) RenderTaskList(_state *monitor.TaskListState) {
	if _state.Loading {
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	w := this.newTabWriter()
	fmt.Fprintln(w, "ID\t任务名称\t源数据库\t目标数据库\t同步类型\t状态\t开始时间\t创建时间")
	for _, row := range _state.Rows {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			row.Task.Id, row.Task.TaskName, row.SourceDb, row.TargetDb, row.SyncTypeLabel,
			row.Status.Label, row.Task.TaskStartTime.Format(), row.Task.CreateTime.Format())
	}
	w.Flush()
	fmt.Fprintf(this.Out, "共 %v 个任务, 显示 %v 个. 刷新时间: %v\n",
		_state.Total, len(_state.Rows), _state.RefreshTime.Format(model.TIME_LAYOUT))
}

// 任务监控视图渲染
func (this *Printer) RenderMonitor(_state *monitor.MonitorState) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if _state.Loading {
		fmt.Fprintln(this.Out, "加载中...")
		return
	}
	if _state.Task == nil {
		return
	}

	task := _state.Task
	w := this.newTabWriter()
	fmt.Fprintf(w, "任务:\t%v (ID: %v)\t状态:\t%v\n", task.TaskName, task.Id, _state.Status.Label)
	fmt.Fprintf(w, "源数据库:\t%v\t目标数据库:\t%v\n", _state.SourceDb, _state.TargetDb)
	fmt.Fprintf(w, "同步类型:\t%v\t开始时间:\t%v\n", _state.SyncTypeLabel, task.TaskStartTime.Format())
	fmt.Fprintf(w, "表数量:\t%v\t同步总量:\t%v\n", _state.TableCount, _state.TotalSyncCount)
	fmt.Fprintf(w, "异常总数:\t%v\t刷新时间:\t%v\n", _state.TotalExceptionCount, _state.RefreshTime.Format(model.TIME_LAYOUT))
	w.Flush()
	fmt.Fprintln(this.Out)

	w = this.newTabWriter()
	fmt.Fprintln(w, "表名\t开始时间\t插入\t更新\t删除\t同步量\t异常\t进度\t\t最近更新")
	for _, row := range _state.Rows {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			row.TableName, row.StartTime.Format(), row.InsertCount, row.UpdateCount, row.DeleteCount,
			row.SyncCount, row.ExceptionCount, ProgressBar(row.BarPercent, PROGRESS_BAR_WIDTH),
			row.ProgressLabel, row.LastUpdateTime.Format())
	}
	w.Flush()
}

/* 文本进度条
Params:
    _percent: 0~100
    _width: 进度条宽度
*/
func ProgressBar(_percent float64, _width int) string {
	filled := int(_percent / 100 * float64(_width))
	if filled < 0 {
		filled = 0
	}
	if filled > _width {
		filled = _width
	}

	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", _width-filled) + "]"
}

// 任务详情
func (this *Printer) PrintTaskConfig(_configMap *config.TaskConfigMap, _exceptionCount int64) {
	this.mu.Lock()
	defer this.mu.Unlock()

	task := _configMap.Task
	w := this.newTabWriter()
	fmt.Fprintf(w, "ID:\t%v\n", task.Id)
	fmt.Fprintf(w, "任务名称:\t%v\n", task.TaskName)
	fmt.Fprintf(w, "状态:\t%v\n", monitor.ClassifyStatus(task.Status).Label)
	fmt.Fprintf(w, "同步类型:\t%v\n", task.SyncTypeLabel())
	fmt.Fprintf(w, "源数据库:\t%v\n", _configMap.Source.GetDisplayName())
	fmt.Fprintf(w, "目标数据库:\t%v\n", _configMap.Target.GetDisplayName())
	fmt.Fprintf(w, "启动选项:\t%v\n", common.OrPlaceholder(task.StartupOptions))
	fmt.Fprintf(w, "异常记录:\t%v\n", _exceptionCount)
	fmt.Fprintf(w, "开始时间:\t%v\n", task.TaskStartTime.Format())
	fmt.Fprintf(w, "创建时间:\t%v\n", task.CreateTime.Format())
	w.Flush()

	fmt.Fprintln(this.Out)
	w = this.newTabWriter()
	fmt.Fprintln(w, "源表\t目标表")
	for _, tableName := range _configMap.SourceTableNames() {
		fmt.Fprintf(w, "%v\t%v\n", tableName, _configMap.TableMapMap[config.GetTableKey(tableName)].TargetTable)
	}
	w.Flush()
}

func (this *Printer) PrintExceptionOverlay(_overlay *monitor.ExceptionOverlay) {
	this.Infof("表 [%v] 异常详情:", _overlay.TableName)
	this.PrintExceptions(_overlay.Errors)
}

func (this *Printer) PrintExceptions(_records []*monitor.ExceptionRecord) {
	this.mu.Lock()
	defer this.mu.Unlock()

	w := this.newTabWriter()
	fmt.Fprintln(w, "ID\t表名\t异常时间\t异常信息")
	for _, record := range _records {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", record.Id, record.TableName, record.ErrorTime.Format(),
			strings.ReplaceAll(record.ErrorDetail, "\n", " "))
	}
	w.Flush()
	fmt.Fprintf(this.Out, "共 %v 条异常记录\n", len(_records))
}
