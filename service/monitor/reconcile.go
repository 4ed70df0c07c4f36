package monitor

import (
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
)

/* 使用同步引擎返回的 isRunning 校正任务状态.
isRunning 为 nil 表示后端没有返回, 不做校正.
isRunning 和 状态码 不一致时以 isRunning 为准: true -> 运行中, false -> 停止.
Params:
    _status: 任务当前的状态码
    _isRunning: 引擎中任务是否在运行
Return:
    int: 校正后的状态码
    bool: 是否发生了校正
*/
func Reconcile(_status int, _isRunning *bool) (int, bool) {
	if _isRunning == nil {
		return _status, false
	}

	running := *_isRunning
	if running && _status != model.TASK_STATUS_RUNNING {
		return model.TASK_STATUS_RUNNING, true
	}
	if !running && _status == model.TASK_STATUS_RUNNING {
		return model.TASK_STATUS_STOPPED, true
	}

	return _status, false
}

// 校正快照中任务的状态, 返回的是新的任务对象
func ReconcileSnapshot(_snapshot *TaskSnapshot) *model.SyncTask {
	task := _snapshot.Task.Clone()

	status, changed := Reconcile(task.Status, _snapshot.Statistics.TaskInfo.IsRunning)
	if changed {
		logger.M.Debugf("任务[%v]状态不一致, 更新状态: 任务状态=%v, 实际运行状态=%v",
			task.Id, task.Status, *_snapshot.Statistics.TaskInfo.IsRunning)
		task.Status = status
	}

	return task
}
