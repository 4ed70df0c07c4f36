package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"go.uber.org/atomic"
)

var (
	ErrActionInFlight = errors.New("该任务已经有正在执行的操作")
	ErrActionDisabled = errors.New("当前任务状态不允许该操作")
)

const (
	ACTION_START  = "start"
	ACTION_STOP   = "stop"
	ACTION_DELETE = "delete"
)

// 操作前的确认, 返回 false 表示用户取消
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// 直接同意所有确认, 命令行 --yes
var AssumeYes Confirmer = ConfirmerFunc(func(string) bool { return true })

type TaskActions interface {
	Start(ctx context.Context, id int64) error
	Stop(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

/* 任务操作闸门: 状态检查, 用户确认, 同一个任务同时只能有一个请求在执行.
成功之后由视图重新获取数据, 这里不修改任务状态.
*/
type ActionGate struct {
	actions   TaskActions
	confirmer Confirmer

	mu       sync.Mutex
	inFlight map[int64]*atomic.Bool
}

func NewActionGate(_actions TaskActions, _confirmer Confirmer) *ActionGate {
	if _confirmer == nil {
		_confirmer = AssumeYes
	}

	return &ActionGate{
		actions:   _actions,
		confirmer: _confirmer,
		inFlight:  make(map[int64]*atomic.Bool),
	}
}

func (this *ActionGate) CanStart(_task *model.SyncTask) bool {
	return _task != nil && !_task.IsRunning() && !this.InFlight(_task.Id)
}

func (this *ActionGate) CanStop(_task *model.SyncTask) bool {
	return _task != nil && _task.IsRunning() && !this.InFlight(_task.Id)
}

func (this *ActionGate) CanDelete(_task *model.SyncTask) bool {
	return _task != nil && !_task.IsRunning() && !this.InFlight(_task.Id)
}

// 运行中的任务不能编辑
func (this *ActionGate) CanEdit(_task *model.SyncTask) bool {
	return _task != nil && !_task.IsRunning()
}

func (this *ActionGate) InFlight(_taskId int64) bool {
	this.mu.Lock()
	defer this.mu.Unlock()

	flag, ok := this.inFlight[_taskId]
	return ok && flag.Load()
}

/* 启动任务
Return:
    bool: 是否真的发送了请求, 用户取消返回 false
*/
func (this *ActionGate) Start(ctx context.Context, _task *model.SyncTask) (bool, error) {
	if !this.CanStart(_task) {
		return false, this.disabledErr(ACTION_START, _task)
	}
	prompt := fmt.Sprintf("确定要启动任务 [%v] 吗?", _task.TaskName)

	return this.run(ctx, ACTION_START, _task, prompt, this.actions.Start)
}

func (this *ActionGate) Stop(ctx context.Context, _task *model.SyncTask) (bool, error) {
	if !this.CanStop(_task) {
		return false, this.disabledErr(ACTION_STOP, _task)
	}
	prompt := fmt.Sprintf("确定要停止任务 [%v] 吗?", _task.TaskName)

	return this.run(ctx, ACTION_STOP, _task, prompt, this.actions.Stop)
}

func (this *ActionGate) Delete(ctx context.Context, _task *model.SyncTask) (bool, error) {
	if !this.CanDelete(_task) {
		return false, this.disabledErr(ACTION_DELETE, _task)
	}
	prompt := fmt.Sprintf("确定要删除任务 [%v] 吗? 此操作不可恢复!", _task.TaskName)

	return this.run(ctx, ACTION_DELETE, _task, prompt, this.actions.Delete)
}

func (this *ActionGate) run(
	ctx context.Context,
	_action string,
	_task *model.SyncTask,
	_prompt string,
	_fn func(ctx context.Context, id int64) error,
) (bool, error) {
	if !this.confirmer.Confirm(_prompt) {
		logger.M.Infof("取消操作. action: %v, task id: %v", _action, _task.Id)
		return false, nil
	}

	flag := this.acquire(_task.Id)
	if flag == nil {
		return false, errors.Annotatef(ErrActionInFlight, "action: %v, task id: %v", _action, _task.Id)
	}
	defer flag.Store(false)

	if err := _fn(ctx, _task.Id); err != nil {
		return true, errors.Annotatef(err, "任务操作失败. action: %v, task id: %v", _action, _task.Id)
	}
	logger.M.Infof("任务操作成功. action: %v, task id: %v", _action, _task.Id)

	return true, nil
}

// 标记任务有请求正在执行, 已经有请求在执行返回 nil
func (this *ActionGate) acquire(_taskId int64) *atomic.Bool {
	this.mu.Lock()
	defer this.mu.Unlock()

	flag, ok := this.inFlight[_taskId]
	if !ok {
		flag = atomic.NewBool(false)
		this.inFlight[_taskId] = flag
	}
	if !flag.CAS(false, true) {
		return nil
	}

	return flag
}

func (this *ActionGate) disabledErr(_action string, _task *model.SyncTask) error {
	if _task == nil {
		return errors.NotFoundf("任务")
	}
	if this.InFlight(_task.Id) {
		return errors.Annotatef(ErrActionInFlight, "action: %v, task id: %v", _action, _task.Id)
	}

	return errors.Annotatef(ErrActionDisabled, "action: %v, task id: %v, status: %v",
		_action, _task.Id, ClassifyStatus(_task.Status).Label)
}
