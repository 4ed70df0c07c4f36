package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
)

func TestActionGate_Guards(t *testing.T) {
	gate := NewActionGate(nil, nil)
	stopped := &model.SyncTask{Id: 1, Status: model.TASK_STATUS_STOPPED}
	running := &model.SyncTask{Id: 2, Status: model.TASK_STATUS_RUNNING}
	failed := &model.SyncTask{Id: 3, Status: model.TASK_STATUS_ERROR}

	require.True(t, gate.CanStart(stopped))
	require.False(t, gate.CanStop(stopped))
	require.True(t, gate.CanDelete(stopped))
	require.True(t, gate.CanEdit(stopped))

	require.False(t, gate.CanStart(running))
	require.True(t, gate.CanStop(running))
	require.False(t, gate.CanDelete(running))
	require.False(t, gate.CanEdit(running))

	require.True(t, gate.CanStart(failed))
	require.False(t, gate.CanStop(failed))

	require.False(t, gate.CanStart(nil))
}

func TestActionGate_Start(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)
	confirmer := &recordConfirmer{answer: true}
	gate := env.gate(confirmer)

	performed, err := gate.Start(context.Background(), task)
	require.NoError(t, err)
	require.True(t, performed)
	require.Len(t, confirmer.prompts, 1)
	require.Contains(t, confirmer.prompts[0], "order-sync")
	require.Equal(t, model.TASK_STATUS_RUNNING, env.fake.Task(task.Id).Status)
	require.False(t, gate.InFlight(task.Id))

	// 不修改传入的任务, 由视图重新获取
	require.Equal(t, model.TASK_STATUS_STOPPED, task.Status)
}

// 用户取消不是错误, 也不发送请求
func TestActionGate_Declined(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)
	gate := env.gate(&recordConfirmer{answer: false})

	performed, err := gate.Start(context.Background(), task)
	require.NoError(t, err)
	require.False(t, performed)
	require.Equal(t, 0, env.fake.Calls("/db/startTask"))

	performed, err = gate.Delete(context.Background(), task)
	require.NoError(t, err)
	require.False(t, performed)
	require.Equal(t, 0, env.fake.Calls("/db/deleteSyncTask"))
}

func TestActionGate_Disabled(t *testing.T) {
	env := newTestEnv(t)
	running := env.addTask("running", model.TASK_STATUS_RUNNING)
	stopped := env.addTask("stopped", model.TASK_STATUS_STOPPED)
	confirmer := &recordConfirmer{answer: true}
	gate := env.gate(confirmer)
	ctx := context.Background()

	_, err := gate.Start(ctx, running)
	require.Equal(t, ErrActionDisabled, errors.Cause(err))

	_, err = gate.Delete(ctx, running)
	require.Equal(t, ErrActionDisabled, errors.Cause(err))

	_, err = gate.Stop(ctx, stopped)
	require.Equal(t, ErrActionDisabled, errors.Cause(err))

	// 状态不允许时不会询问用户
	require.Empty(t, confirmer.prompts)
	require.Equal(t, 0, env.fake.Calls("/db/startTask"))
	require.Equal(t, 0, env.fake.Calls("/db/stopTask"))
}

func TestActionGate_BackendError(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask("order-sync", model.TASK_STATUS_STOPPED)
	gate := env.gate(nil)

	env.fake.FailPath("/db/startTask", "启动失败")
	performed, err := gate.Start(context.Background(), task)
	require.True(t, performed)
	require.Error(t, err)
	require.False(t, gate.InFlight(task.Id))
}

type blockingActions struct {
	entered chan struct{}
	release chan struct{}
}

func (this *blockingActions) Start(ctx context.Context, id int64) error {
	this.entered <- struct{}{}
	<-this.release
	return nil
}

func (this *blockingActions) Stop(ctx context.Context, id int64) error {
	return nil
}

func (this *blockingActions) Delete(ctx context.Context, id int64) error {
	return nil
}

// 同一个任务同时只能有一个请求
func TestActionGate_InFlight(t *testing.T) {
	actions := &blockingActions{entered: make(chan struct{}, 1), release: make(chan struct{})}
	gate := NewActionGate(actions, AssumeYes)
	task := &model.SyncTask{Id: 7, TaskName: "t", Status: model.TASK_STATUS_STOPPED}

	done := make(chan error, 1)
	go func() {
		_, err := gate.Start(context.Background(), task)
		done <- err
	}()

	select {
	case <-actions.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("启动请求没有发送")
	}

	require.True(t, gate.InFlight(task.Id))
	require.False(t, gate.CanStart(task))
	require.False(t, gate.CanDelete(task))

	performed, err := gate.Start(context.Background(), task)
	require.False(t, performed)
	require.Equal(t, ErrActionInFlight, errors.Cause(err))

	// 其他任务不受影响
	other := &model.SyncTask{Id: 8, TaskName: "o", Status: model.TASK_STATUS_RUNNING}
	performed, err = gate.Stop(context.Background(), other)
	require.NoError(t, err)
	require.True(t, performed)

	close(actions.release)
	require.NoError(t, <-done)
	require.False(t, gate.InFlight(task.Id))
	require.True(t, gate.CanStart(task))
}
