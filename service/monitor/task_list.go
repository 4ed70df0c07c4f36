package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

type TaskLister interface {
	GetAll(ctx context.Context) ([]*model.SyncTask, error)
}

// 任务列表过滤条件, Status 为 nil 表示全部状态
type TaskFilter struct {
	Search string
	Status *int
}

func (this TaskFilter) Match(_task *model.SyncTask) bool {
	if search := strings.TrimSpace(this.Search); search != "" {
		if !common.ContainsIgnoreCase(_task.TaskName, search) {
			return false
		}
	}
	if this.Status != nil && _task.Status != *this.Status {
		return false
	}

	return true
}

/* 过滤任务, 保持原有顺序
Params:
    _tasks: 所有任务
    _filter: 过滤条件
*/
func FilterTasks(_tasks []*model.SyncTask, _filter TaskFilter) []*model.SyncTask {
	tasks := make([]*model.SyncTask, 0, len(_tasks))
	for _, task := range _tasks {
		if task == nil || !_filter.Match(task) {
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks
}

// 任务列表中的一行
type TaskListRow struct {
	Task          *model.SyncTask
	Status        StatusView
	SourceDb      string
	TargetDb      string
	SyncTypeLabel string
	CanStart      bool
	CanStop       bool
	CanEdit       bool
	CanDelete     bool
}

type TaskListState struct {
	Loading     bool
	Filter      TaskFilter
	Total       int // 过滤之前的任务数
	Rows        []*TaskListRow
	RefreshTime time.Time
}

type TaskListRenderer interface {
	RenderTaskList(state *TaskListState)
}

type TaskListRendererFunc func(state *TaskListState)

func (f TaskListRendererFunc) RenderTaskList(state *TaskListState) {
	f(state)
}

// 任务列表视图, 默认每 30 秒后台刷新一次
type TaskListView struct {
	Renderer TaskListRenderer

	lister    TaskLister
	directory *DatabaseDirectory
	gate      *ActionGate
	poller    *Poller

	mu          sync.Mutex
	tasks       []*model.SyncTask
	filter      TaskFilter
	loading     bool
	refreshTime time.Time
	appliedSeq  int64
	seq         *atomic.Int64
	mounted     *atomic.Bool
	ctx         context.Context
}

func NewTaskListView(
	_interval time.Duration,
	_lister TaskLister,
	_directory *DatabaseDirectory,
	_gate *ActionGate,
) *TaskListView {
	if _interval <= 0 {
		_interval = LIST_POLL_INTERVAL
	}

	return &TaskListView{
		lister:    _lister,
		directory: _directory,
		gate:      _gate,
		poller:    NewPoller("task-list", _interval),
		tasks:     make([]*model.SyncTask, 0),
		seq:       atomic.NewInt64(0),
		mounted:   atomic.NewBool(false),
		ctx:       context.Background(),
	}
}

// 挂载视图, 前台获取一次之后启动定时器. 前台获取失败也会启动定时器, 获取期间被卸载则不启动
func (this *TaskListView) Mount(ctx context.Context) error {
	this.mu.Lock()
	this.ctx = ctx
	this.mu.Unlock()
	this.mounted.Store(true)

	fetchErr := this.Fetch(ctx, true)
	// 前台获取期间已经卸载, 不能再启动定时器
	if !this.mounted.Load() {
		return errors.Trace(fetchErr)
	}
	if err := this.poller.Start(this.tick); err != nil {
		return errors.Trace(err)
	}
	if !this.mounted.Load() {
		this.poller.Stop()
	}

	return errors.Trace(fetchErr)
}

func (this *TaskListView) Unmount() {
	this.mounted.Store(false)
	this.poller.Stop()
}

func (this *TaskListView) Poller() *Poller {
	return this.poller
}

func (this *TaskListView) tick() {
	this.mu.Lock()
	ctx := this.ctx
	this.mu.Unlock()

	if err := this.Fetch(ctx, false); err != nil {
		logger.M.Warnf("%v: 任务列表. 后台刷新失败, 保留上一次数据. %v", common.CurrLine(), err)
	}
}

// 同时获取任务列表和数据库列表, 两个都成功并且是最新的请求才更新, 数据库目录也一起更新
func (this *TaskListView) Fetch(ctx context.Context, _showLoading bool) error {
	seq := this.seq.Inc()
	if _showLoading {
		this.mu.Lock()
		this.loading = true
		this.mu.Unlock()
		this.render()
	}

	var tasks []*model.SyncTask
	var databases []*model.Database
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = this.lister.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		databases, err = this.directory.lister.GetAll(gctx)
		return errors.Annotatef(err, "刷新数据库目录失败")
	})
	err := g.Wait()

	if !this.mounted.Load() {
		logger.M.Debugf("任务列表视图已经卸载, 丢弃响应. seq: %v", seq)
		return nil
	}

	this.mu.Lock()
	if _showLoading {
		this.loading = false
	}
	applied := false
	if err == nil && seq > this.appliedSeq {
		this.appliedSeq = seq
		this.tasks = tasks
		this.directory.Replace(databases)
		this.refreshTime = time.Now()
		applied = true
	}
	this.mu.Unlock()

	if applied || _showLoading {
		this.render()
	}
	if err != nil {
		return errors.Annotatef(err, "获取任务列表失败")
	}

	return nil
}

// 修改过滤条件, 使用已有数据重新渲染
func (this *TaskListView) SetFilter(_filter TaskFilter) {
	this.mu.Lock()
	this.filter = _filter
	this.mu.Unlock()

	this.render()
}

func (this *TaskListView) State() *TaskListState {
	this.mu.Lock()
	defer this.mu.Unlock()

	tasks := FilterTasks(this.tasks, this.filter)
	rows := make([]*TaskListRow, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, &TaskListRow{
			Task:          task,
			Status:        ClassifyStatus(task.Status),
			SourceDb:      this.directory.DisplayName(task.SourceDbId),
			TargetDb:      this.directory.DisplayName(task.TargetDbId),
			SyncTypeLabel: task.SyncTypeLabel(),
			CanStart:      this.gate.CanStart(task),
			CanStop:       this.gate.CanStop(task),
			CanEdit:       this.gate.CanEdit(task),
			CanDelete:     this.gate.CanDelete(task),
		})
	}

	return &TaskListState{
		Loading:     this.loading,
		Filter:      this.filter,
		Total:       len(this.tasks),
		Rows:        rows,
		RefreshTime: this.refreshTime,
	}
}

func (this *TaskListView) render() {
	if this.Renderer == nil || !this.mounted.Load() {
		return
	}
	this.Renderer.RenderTaskList(this.State())
}

func (this *TaskListView) findTask(_taskId int64) (*model.SyncTask, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	for _, task := range this.tasks {
		if task.Id == _taskId {
			return task, nil
		}
	}

	return nil, errors.NotFoundf("任务. task id: %v", _taskId)
}

func (this *TaskListView) HandleStart(ctx context.Context, _taskId int64) (bool, error) {
	return this.handle(ctx, _taskId, this.gate.Start)
}

func (this *TaskListView) HandleStop(ctx context.Context, _taskId int64) (bool, error) {
	return this.handle(ctx, _taskId, this.gate.Stop)
}

func (this *TaskListView) HandleDelete(ctx context.Context, _taskId int64) (bool, error) {
	return this.handle(ctx, _taskId, this.gate.Delete)
}

func (this *TaskListView) handle(
	ctx context.Context,
	_taskId int64,
	_action func(ctx context.Context, task *model.SyncTask) (bool, error),
) (bool, error) {
	task, err := this.findTask(_taskId)
	if err != nil {
		return false, errors.Trace(err)
	}

	performed, err := _action(ctx, task)
	if err != nil || !performed {
		return performed, errors.Trace(err)
	}

	return true, errors.Trace(this.Fetch(ctx, true))
}
