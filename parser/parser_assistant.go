package parser

import (
	"context"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

type TaskGetter interface {
	GetById(ctx context.Context, id int64) (*model.SyncTask, error)
}

/* 检测需要操作的任务
Params:
    _taskId: 任务ID
*/
func DetectTask(ctx context.Context, _getter TaskGetter, _taskId int64) (*model.SyncTask, error) {
	// 检测 task id 是否正确
	if err := DetectTaskIdInput(_taskId); err != nil {
		return nil, err
	}

	// 检测 指定的任务是否存在
	return DetectTaskExists(ctx, _getter, _taskId)
}

/* 检测 task id 是否正确
Params:
    _taskId: 任务ID
*/
func DetectTaskIdInput(_taskId int64) error {
	if _taskId <= 0 {
		return errors.NotValidf("任务ID %v, 必须大于0. %v", _taskId, common.CurrLine())
	}

	return nil
}

/* 检测 task 是否存在
Params:
    _taskId: 任务ID
*/
func DetectTaskExists(ctx context.Context, _getter TaskGetter, _taskId int64) (*model.SyncTask, error) {
	task, err := _getter.GetById(ctx, _taskId)
	if err != nil {
		return nil, errors.Annotatef(err, "失败. 检测任务是否存在. task id: %v %v", _taskId, common.CurrLine())
	}
	if task == nil {
		return nil, errors.NotFoundf("任务 %v %v", _taskId, common.CurrLine())
	}

	return task, nil
}

/* 检测 任务是否已经在运行, 运行中的任务不能修改和删除
Params:
    _task: 任务
*/
func DetectTaskNotRunning(_task *model.SyncTask) error {
	if _task.IsRunning() {
		return errors.NotValidf("任务[%v]正在运行, 请先停止任务. %v", _task.TaskName, common.CurrLine())
	}

	return nil
}

func DetectDatabaseIdInput(_databaseId int64) error {
	if _databaseId <= 0 {
		return errors.NotValidf("数据库ID %v, 必须大于0. %v", _databaseId, common.CurrLine())
	}

	return nil
}
