package monitor

import (
	"context"

	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"golang.org/x/sync/errgroup"
)

type TaskGetter interface {
	GetById(ctx context.Context, id int64) (*model.SyncTask, error)
	GetStatistics(ctx context.Context, id int64) (*model.TaskStatistics, error)
}

// 任务信息和统计信息, 一起获取一起使用
type TaskSnapshot struct {
	Task       *model.SyncTask
	Statistics *model.TaskStatistics
}

type SnapshotFetcher struct {
	getter TaskGetter
}

func NewSnapshotFetcher(_getter TaskGetter) *SnapshotFetcher {
	return &SnapshotFetcher{getter: _getter}
}

/* 同时获取任务信息和统计信息, 两个都成功才返回, 任意一个失败整体失败
Params:
    _taskId: 任务ID
*/
func (this *SnapshotFetcher) Fetch(ctx context.Context, _taskId int64) (*TaskSnapshot, error) {
	var task *model.SyncTask
	var statistics *model.TaskStatistics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		task, err = this.getter.GetById(gctx, _taskId)
		return err
	})
	g.Go(func() error {
		var err error
		statistics, err = this.getter.GetStatistics(gctx, _taskId)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Annotatef(err, "获取任务快照失败. task id: %v", _taskId)
	}
	if task == nil || statistics == nil {
		return nil, errors.NotFoundf("任务快照. task id: %v", _taskId)
	}

	return &TaskSnapshot{Task: task, Statistics: statistics}, nil
}
