package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

const statisticsPath = "/db/getTaskStatistics"

// 记录所有渲染过的状态
type recordRenderer struct {
	mu     sync.Mutex
	states []*MonitorState
}

func (this *recordRenderer) RenderMonitor(state *MonitorState) {
	this.mu.Lock()
	defer this.mu.Unlock()
	this.states = append(this.states, state)
}

func (this *recordRenderer) count() int {
	this.mu.Lock()
	defer this.mu.Unlock()
	return len(this.states)
}

func (this *recordRenderer) all() []*MonitorState {
	this.mu.Lock()
	defer this.mu.Unlock()
	return append([]*MonitorState{}, this.states...)
}

func (this *recordRenderer) last() *MonitorState {
	this.mu.Lock()
	defer this.mu.Unlock()
	return this.states[len(this.states)-1]
}

func newMonitorView(env *testEnv, taskId int64, interval time.Duration, confirmer Confirmer) *TaskMonitorView {
	return NewTaskMonitorView(
		taskId,
		interval,
		NewSnapshotFetcher(env.taskDao),
		env.directory(),
		env.gate(confirmer),
		NewExceptionDrillDown(env.exceptionDao),
	)
}

func TestTaskMonitorView_Mount(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_RUNNING)
	env.fake.SetEngineRunning(task.Id, boolPtr(true))
	env.fake.SetTableStats(task.Id,
		map[string]interface{}{"tableName": "user", "progress": "42", "insertCount": 10, "exceptionCount": 0},
		map[string]interface{}{"tableName": "order", "progress": -1, "insertCount": "7", "exceptionCount": "3"},
	)
	for i := 0; i < 3; i++ {
		env.fake.AddException(&model.SyncException{TaskId: task.Id, TableName: "order", ErrorMessage: "duplicate key"})
	}

	renderer := &recordRenderer{}
	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	view.Renderer = renderer

	before := ActiveTimers()
	require.NoError(t, view.Mount(context.Background()))
	defer view.Unmount()

	require.True(t, view.Poller().IsActive())
	require.Equal(t, before+1, ActiveTimers())

	// 第一次渲染是加载中
	require.True(t, renderer.all()[0].Loading)

	state := view.State()
	require.False(t, state.Loading)
	require.Equal(t, "运行中", state.Status.Label)
	require.Equal(t, "10.0.0.1:3306/shop", state.SourceDb)
	require.Equal(t, "10.0.0.2:3307/shop_bak", state.TargetDb)
	require.Equal(t, "增量同步", state.SyncTypeLabel)
	require.Len(t, state.TableMaps, 2)
	require.Equal(t, 2, state.TableCount)
	require.Equal(t, int64(3), state.TotalExceptionCount)
	require.Equal(t, "42.00%", state.Rows[0].ProgressLabel)
	require.Equal(t, PROGRESS_ONGOING_LABEL, state.Rows[1].ProgressLabel)
	require.Equal(t, int64(7), state.Rows[1].InsertCount)

	overlay, err := view.ViewErrors(context.Background(), "user")
	require.NoError(t, err)
	require.Nil(t, overlay)
	require.Equal(t, 0, env.fake.Calls("/exception/getByTaskIdAndTableName"))

	overlay, err = view.ViewErrors(context.Background(), "order")
	require.NoError(t, err)
	require.Len(t, overlay.Errors, 3)

	view.Unmount()
	require.False(t, view.Poller().IsActive())
	require.Equal(t, before, ActiveTimers())
}

func TestTaskMonitorView_Reconcile(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)
	env.fake.SetEngineRunning(task.Id, boolPtr(true))

	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	require.NoError(t, view.Mount(context.Background()))
	defer view.Unmount()

	state := view.State()
	require.Equal(t, model.TASK_STATUS_RUNNING, state.Task.Status)
	require.Equal(t, TASK_STATE_RUNNING, state.Status.State)

	// 引擎停止, 下一次获取就校正回来
	env.fake.SetEngineRunning(task.Id, boolPtr(false))
	env.fake.SetTaskStatus(task.Id, model.TASK_STATUS_RUNNING)
	require.NoError(t, view.Fetch(context.Background(), false))
	require.Equal(t, model.TASK_STATUS_STOPPED, view.State().Task.Status)
}

// 统计获取失败: 清除加载状态, 离开页面
func TestTaskMonitorView_ForegroundFail(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_RUNNING)
	env.fake.FailHttp(statisticsPath, true)

	renderer := &recordRenderer{}
	left := atomic.NewInt64(0)
	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	view.Renderer = renderer
	view.OnLeave = func(err error) {
		require.Error(t, err)
		left.Inc()
	}

	before := ActiveTimers()
	err := view.Mount(context.Background())
	defer view.Unmount()

	require.Error(t, err)
	require.Equal(t, int64(1), left.Load())
	require.False(t, view.State().Loading)
	require.False(t, renderer.last().Loading)
	require.False(t, view.IsMounted())
	require.False(t, view.Poller().IsActive())
	require.Equal(t, before, ActiveTimers())
}

// 后台刷新失败保留之前的数据, 不离开页面
func TestTaskMonitorView_BackgroundFail(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_RUNNING)
	env.fake.SetEngineRunning(task.Id, boolPtr(true))

	left := atomic.NewInt64(0)
	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	view.OnLeave = func(error) { left.Inc() }
	require.NoError(t, view.Mount(context.Background()))
	defer view.Unmount()

	env.fake.FailPath(statisticsPath, "统计失败")
	require.Error(t, view.Fetch(context.Background(), false))

	require.Equal(t, int64(0), left.Load())
	require.True(t, view.IsMounted())
	require.True(t, view.Poller().IsActive())
	require.Equal(t, "order-sync", view.State().Task.TaskName)
}

func TestTaskMonitorView_Polling(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_RUNNING)

	renderer := &recordRenderer{}
	view := newMonitorView(env, task.Id, 10*time.Millisecond, AssumeYes)
	view.Renderer = renderer

	before := ActiveTimers()
	require.NoError(t, view.Mount(context.Background()))
	require.Equal(t, before+1, ActiveTimers())

	require.Eventually(t, func() bool { return env.fake.Calls(statisticsPath) >= 3 }, 2*time.Second, 5*time.Millisecond)

	// 后台刷新不显示加载中
	require.Eventually(t, func() bool { return renderer.count() >= 4 }, 2*time.Second, 5*time.Millisecond)
	for _, state := range renderer.all()[2:] {
		require.False(t, state.Loading)
	}

	view.Unmount()
	require.Equal(t, before, ActiveTimers())
	// 重复卸载
	view.Unmount()
	require.Equal(t, before, ActiveTimers())
}

// 旧的请求比新的请求后返回时, 不覆盖新的数据
func TestTaskMonitorView_OutOfOrder(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)
	env.fake.SetEngineRunning(task.Id, boolPtr(false))

	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	require.NoError(t, view.Mount(context.Background()))
	defer view.Unmount()

	arrived := make(chan struct{})
	release := make(chan struct{})
	env.fake.BeforeHandle = func(path string, call int) {
		if path == statisticsPath && call == 2 {
			close(arrived)
			<-release
		}
	}

	slow := make(chan error, 1)
	go func() {
		slow <- view.Fetch(context.Background(), false)
	}()
	<-arrived

	// 新的请求先返回: 任务已经运行
	env.fake.SetEngineRunning(task.Id, boolPtr(true))
	require.NoError(t, view.Fetch(context.Background(), false))
	require.Equal(t, model.TASK_STATUS_RUNNING, view.State().Task.Status)

	// 旧的请求后返回, 被丢弃
	env.fake.SetEngineRunning(task.Id, boolPtr(false))
	close(release)
	require.NoError(t, <-slow)
	require.Equal(t, model.TASK_STATUS_RUNNING, view.State().Task.Status)
}

// 卸载之后返回的响应不修改视图
func TestTaskMonitorView_LateResponseAfterUnmount(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)

	renderer := &recordRenderer{}
	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	view.Renderer = renderer
	require.NoError(t, view.Mount(context.Background()))

	arrived := make(chan struct{})
	release := make(chan struct{})
	env.fake.BeforeHandle = func(path string, call int) {
		if path == statisticsPath && call == 2 {
			close(arrived)
			<-release
		}
	}

	late := make(chan error, 1)
	go func() {
		late <- view.Fetch(context.Background(), false)
	}()
	<-arrived

	before := view.State()
	renders := renderer.count()
	view.Unmount()
	env.fake.SetEngineRunning(task.Id, boolPtr(true))
	close(release)

	require.NoError(t, <-late)
	require.Equal(t, renders, renderer.count())
	require.Equal(t, before.RefreshTime, view.State().RefreshTime)
	require.Equal(t, model.TASK_STATUS_STOPPED, view.State().Task.Status)
}

func TestTaskMonitorView_Actions(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)

	confirmer := &recordConfirmer{answer: true}
	view := newMonitorView(env, task.Id, time.Hour, confirmer)
	ctx := context.Background()
	require.NoError(t, view.Mount(ctx))
	defer view.Unmount()

	performed, err := view.HandleStart(ctx)
	require.NoError(t, err)
	require.True(t, performed)
	// 成功之后重新获取, 不是本地修改
	require.Equal(t, 2, env.fake.Calls(statisticsPath))
	require.Equal(t, model.TASK_STATUS_RUNNING, view.State().Task.Status)

	// 运行中不能再次启动
	_, err = view.HandleStart(ctx)
	require.Equal(t, ErrActionDisabled, errors.Cause(err))

	confirmer.answer = false
	performed, err = view.HandleStop(ctx)
	require.NoError(t, err)
	require.False(t, performed)
	require.Equal(t, 0, env.fake.Calls("/db/stopTask"))
	require.Equal(t, 2, env.fake.Calls(statisticsPath))

	confirmer.answer = true
	performed, err = view.HandleStop(ctx)
	require.NoError(t, err)
	require.True(t, performed)
	require.Equal(t, model.TASK_STATUS_STOPPED, view.State().Task.Status)
}

func TestTaskMonitorView_MissingDatabase(t *testing.T) {
	env := newTestEnv(t)
	task := env.fake.AddTask(&model.SyncTask{TaskName: "dangling", SourceDbId: env.source.Id, TargetDbId: 9999, Tables: "[broken"})

	view := newMonitorView(env, task.Id, time.Hour, AssumeYes)
	require.NoError(t, view.Mount(context.Background()))
	defer view.Unmount()

	state := view.State()
	require.Equal(t, common.PLACEHOLDER, state.TargetDb)
	require.Empty(t, state.TableMaps)
	require.Equal(t, "全量同步", state.SyncTypeLabel)
}
