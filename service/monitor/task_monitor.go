package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"go.uber.org/atomic"
)

// 任务监控页面的状态
type MonitorState struct {
	Loading             bool
	Task                *model.SyncTask // 对账之后的任务
	Status              StatusView
	SourceDb            string
	TargetDb            string
	SyncTypeLabel       string
	TableMaps           []*model.TableMap
	Rows                []*TableRow
	TableCount          int
	TotalSyncCount      int64
	TotalExceptionCount int64
	RefreshTime         time.Time
}

func (this *MonitorState) FindRow(_tableName string) *TableRow {
	for _, row := range this.Rows {
		if row.TableName == _tableName {
			return row
		}
	}

	return nil
}

type MonitorRenderer interface {
	RenderMonitor(state *MonitorState)
}

type MonitorRendererFunc func(state *MonitorState)

func (f MonitorRendererFunc) RenderMonitor(state *MonitorState) {
	f(state)
}

/* 单个任务监控视图, 默认每 10 秒后台刷新一次.
每次获取都有一个递增的序号, 只应用比已应用序号大的响应.
视图卸载之后返回的响应直接丢弃.
*/
type TaskMonitorView struct {
	TaskId   int64
	Renderer MonitorRenderer
	OnLeave  func(err error) // 前台获取失败时离开页面

	fetcher   *SnapshotFetcher
	directory *DatabaseDirectory
	gate      *ActionGate
	drillDown *ExceptionDrillDown
	poller    *Poller

	mu         sync.Mutex
	state      *MonitorState
	appliedSeq int64
	seq        *atomic.Int64
	mounted    *atomic.Bool
	ctx        context.Context
}

func NewTaskMonitorView(
	_taskId int64,
	_interval time.Duration,
	_fetcher *SnapshotFetcher,
	_directory *DatabaseDirectory,
	_gate *ActionGate,
	_drillDown *ExceptionDrillDown,
) *TaskMonitorView {
	if _interval <= 0 {
		_interval = MONITOR_POLL_INTERVAL
	}

	return &TaskMonitorView{
		TaskId:    _taskId,
		fetcher:   _fetcher,
		directory: _directory,
		gate:      _gate,
		drillDown: _drillDown,
		poller:    NewPoller("task-monitor", _interval),
		state:     &MonitorState{},
		seq:       atomic.NewInt64(0),
		mounted:   atomic.NewBool(false),
		ctx:       context.Background(),
	}
}

/* 挂载视图: 刷新数据库目录, 前台获取一次, 成功之后启动定时器.
调用者需要 defer Unmount().
*/
func (this *TaskMonitorView) Mount(ctx context.Context) error {
	this.mu.Lock()
	this.ctx = ctx
	this.mu.Unlock()
	this.mounted.Store(true)

	if err := this.directory.Refresh(ctx); err != nil {
		logger.M.Warnf("%v: 任务监控. 获取数据库列表失败, 数据库显示为 %v. %v",
			common.CurrLine(), common.PLACEHOLDER, err)
	}

	if err := this.Fetch(ctx, true); err != nil {
		return errors.Trace(err)
	}
	if !this.mounted.Load() {
		return nil
	}

	return errors.Trace(this.poller.Start(this.tick))
}

// 卸载视图, 停止定时器. 可以重复调用
func (this *TaskMonitorView) Unmount() {
	this.mounted.Store(false)
	this.poller.Stop()
}

func (this *TaskMonitorView) IsMounted() bool {
	return this.mounted.Load()
}

func (this *TaskMonitorView) Poller() *Poller {
	return this.poller
}

func (this *TaskMonitorView) tick() {
	this.mu.Lock()
	ctx := this.ctx
	this.mu.Unlock()

	// 后台刷新失败只记录日志, 下一次定时继续
	if err := this.Fetch(ctx, false); err != nil {
		logger.M.Warnf("%v: 任务监控. 后台刷新失败, 保留上一次数据. task id: %v. %v",
			common.CurrLine(), this.TaskId, err)
	}
}

/* 获取任务快照并应用到视图.
Params:
    _showLoading: 是否是前台获取. 前台获取失败会离开页面, 后台获取失败保留之前的数据
*/
func (this *TaskMonitorView) Fetch(ctx context.Context, _showLoading bool) error {
	seq := this.seq.Inc()
	if _showLoading {
		this.mu.Lock()
		this.state.Loading = true
		state := this.copyState()
		this.mu.Unlock()
		this.render(state)
	}

	snapshot, err := this.fetcher.Fetch(ctx, this.TaskId)

	if !this.mounted.Load() {
		logger.M.Debugf("任务监控视图已经卸载, 丢弃响应. task id: %v, seq: %v", this.TaskId, seq)
		return nil
	}

	this.mu.Lock()
	if _showLoading {
		this.state.Loading = false
	}
	if seq <= this.appliedSeq {
		state := this.copyState()
		this.mu.Unlock()
		logger.M.Debugf("丢弃过期的响应. task id: %v, seq: %v, applied seq: %v", this.TaskId, seq, this.appliedSeq)
		if _showLoading {
			this.render(state)
		}
		return nil
	}

	if err != nil {
		state := this.copyState()
		this.mu.Unlock()
		if _showLoading {
			this.render(state)
			this.leave(err)
		}
		return errors.Trace(err)
	}

	this.appliedSeq = seq
	this.state = this.buildState(snapshot, this.state.Loading)
	state := this.copyState()
	this.mu.Unlock()

	this.render(state)

	return nil
}

// 对账, 转化表统计, 生成新的状态. 状态在交给渲染之前已经完成对账
func (this *TaskMonitorView) buildState(_snapshot *TaskSnapshot, _loading bool) *MonitorState {
	task := ReconcileSnapshot(_snapshot)
	statistics := _snapshot.Statistics

	tableMaps, err := task.GetTableMaps()
	if err != nil {
		logger.M.Warnf("%v: 任务[%v]同步表解析失败, 视为没有选择表. %v", common.CurrLine(), task.Id, err)
	}

	rows := NormalizeTableStats(statistics.TableStats)

	state := &MonitorState{
		Loading:             _loading,
		Task:                task,
		Status:              ClassifyStatus(task.Status),
		SourceDb:            this.directory.DisplayName(task.SourceDbId),
		TargetDb:            this.directory.DisplayName(task.TargetDbId),
		SyncTypeLabel:       task.SyncTypeLabel(),
		TableMaps:           tableMaps,
		Rows:                rows,
		TableCount:          len(rows),
		TotalSyncCount:      toCount(task.TaskName, "totalSyncCount", statistics.TaskInfo.TotalSyncCount),
		TotalExceptionCount: toCount(task.TaskName, "totalExceptionCount", statistics.TotalExceptionCount),
		RefreshTime:         time.Now(),
	}

	return state
}

// 需要持有锁
func (this *TaskMonitorView) copyState() *MonitorState {
	state := *this.state
	return &state
}

func (this *TaskMonitorView) render(_state *MonitorState) {
	if this.Renderer == nil || !this.mounted.Load() {
		return
	}
	this.Renderer.RenderMonitor(_state)
}

func (this *TaskMonitorView) leave(_err error) {
	logger.M.Errorf("%v: 获取任务监控数据失败, 离开监控页面. task id: %v. %v", common.CurrLine(), this.TaskId, _err)
	this.Unmount()
	if this.OnLeave != nil {
		this.OnLeave(_err)
	}
}

// 当前状态的副本
func (this *TaskMonitorView) State() *MonitorState {
	this.mu.Lock()
	defer this.mu.Unlock()

	return this.copyState()
}

func (this *TaskMonitorView) currentTask() (*model.SyncTask, error) {
	state := this.State()
	if state.Task == nil {
		return nil, errors.NotFoundf("任务监控数据. task id: %v", this.TaskId)
	}

	return state.Task, nil
}

// 启动任务, 成功之后前台重新获取
func (this *TaskMonitorView) HandleStart(ctx context.Context) (bool, error) {
	return this.handle(ctx, this.gate.Start)
}

// 停止任务, 成功之后前台重新获取
func (this *TaskMonitorView) HandleStop(ctx context.Context) (bool, error) {
	return this.handle(ctx, this.gate.Stop)
}

func (this *TaskMonitorView) handle(
	ctx context.Context,
	_action func(ctx context.Context, task *model.SyncTask) (bool, error),
) (bool, error) {
	task, err := this.currentTask()
	if err != nil {
		return false, errors.Trace(err)
	}

	performed, err := _action(ctx, task)
	if err != nil || !performed {
		return performed, errors.Trace(err)
	}

	return true, errors.Trace(this.Fetch(ctx, true))
}

/* 查看某个表的异常详情, 表没有异常时返回 nil
Params:
    _tableName: 表名
*/
func (this *TaskMonitorView) ViewErrors(ctx context.Context, _tableName string) (*ExceptionOverlay, error) {
	row := this.State().FindRow(_tableName)
	if row == nil {
		return nil, errors.NotFoundf("表同步详情. task id: %v, table: %v", this.TaskId, _tableName)
	}

	return this.drillDown.LoadErrors(ctx, this.TaskId, row)
}
