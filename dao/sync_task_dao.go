package dao

import (
	"context"

	"github.com/daiguadaidai/go-d-console/gclient"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

type SyncTaskDao struct {
	Client *gclient.Client
}

func (this *SyncTaskDao) GetAll(ctx context.Context) ([]*model.SyncTask, error) {
	tasks := make([]*model.SyncTask, 0)
	if err := this.Client.Get(ctx, "/db/getAllSyncTasks", nil, &tasks); err != nil {
		return nil, errors.Annotate(err, "获取所有同步任务失败")
	}

	return tasks, nil
}

func (this *SyncTaskDao) GetById(ctx context.Context, id int64) (*model.SyncTask, error) {
	var task *model.SyncTask
	if err := this.Client.Get(ctx, "/db/getSyncTaskById", idParams(id), &task); err != nil {
		return nil, errors.Annotatef(err, "获取同步任务失败. id: %v", id)
	}
	if task == nil {
		return nil, errors.NotFoundf("同步任务. id: %v", id)
	}

	return task, nil
}

func (this *SyncTaskDao) Add(ctx context.Context, task *model.SyncTask) error {
	if err := this.Client.Post(ctx, "/db/addSyncTask", nil, task, nil); err != nil {
		return errors.Annotatef(err, "创建同步任务失败. %v", task.TaskName)
	}

	return nil
}

// task 中需要包含 id, 运行中的任务后端不允许修改
func (this *SyncTaskDao) Update(ctx context.Context, task *model.SyncTask) error {
	if err := this.Client.Post(ctx, "/db/updateSyncTask", nil, task, nil); err != nil {
		return errors.Annotatef(err, "编辑同步任务失败. id: %v", task.Id)
	}

	return nil
}

func (this *SyncTaskDao) Delete(ctx context.Context, id int64) error {
	if err := this.Client.Post(ctx, "/db/deleteSyncTask", idParams(id), nil, nil); err != nil {
		return errors.Annotatef(err, "删除同步任务失败. id: %v", id)
	}

	return nil
}

func (this *SyncTaskDao) Start(ctx context.Context, id int64) error {
	if err := this.Client.Post(ctx, "/db/startTask", idParams(id), nil, nil); err != nil {
		return errors.Annotatef(err, "启动同步任务失败. id: %v", id)
	}

	return nil
}

func (this *SyncTaskDao) Stop(ctx context.Context, id int64) error {
	if err := this.Client.Post(ctx, "/db/stopTask", idParams(id), nil, nil); err != nil {
		return errors.Annotatef(err, "停止同步任务失败. id: %v", id)
	}

	return nil
}

func (this *SyncTaskDao) GetStatistics(ctx context.Context, id int64) (*model.TaskStatistics, error) {
	statistics := new(model.TaskStatistics)
	if err := this.Client.Get(ctx, "/db/getTaskStatistics", idParams(id), statistics); err != nil {
		return nil, errors.Annotatef(err, "获取任务统计信息失败. id: %v", id)
	}

	return statistics, nil
}
