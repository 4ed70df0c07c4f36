package dao

import (
	"context"
	"net/url"
	"strconv"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/gclient"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

type SyncExceptionDao struct {
	Client *gclient.Client
}

func (this *SyncExceptionDao) FindByTaskId(ctx context.Context, taskId int64) ([]*model.SyncException, error) {
	exceptions := make([]*model.SyncException, 0)
	if err := this.Client.Get(ctx, "/exception/getByTaskId", taskParams(taskId, ""), &exceptions); err != nil {
		return nil, errors.Annotatef(err, "获取任务异常记录失败. task id: %v", taskId)
	}

	return exceptions, nil
}

func (this *SyncExceptionDao) FindByTaskIdAndTableName(ctx context.Context, taskId int64,
	tableName string) ([]*model.SyncException, error) {

	exceptions := make([]*model.SyncException, 0)
	err := this.Client.Get(ctx, "/exception/getByTaskIdAndTableName", taskParams(taskId, tableName), &exceptions)
	if err != nil {
		return nil, errors.Annotatef(err, "获取表异常记录失败. task id: %v, table: %v", taskId, tableName)
	}

	return exceptions, nil
}

func (this *SyncExceptionDao) CountByTaskId(ctx context.Context, taskId int64) (int64, error) {
	return this.count(ctx, "/exception/countByTaskId", taskParams(taskId, ""))
}

func (this *SyncExceptionDao) CountByTaskIdAndTableName(ctx context.Context, taskId int64, tableName string) (int64, error) {
	return this.count(ctx, "/exception/countByTaskIdAndTableName", taskParams(taskId, tableName))
}

func (this *SyncExceptionDao) count(ctx context.Context, path string, params url.Values) (int64, error) {
	var raw interface{}
	if err := this.Client.Get(ctx, path, params, &raw); err != nil {
		return 0, errors.Annotatef(err, "获取异常记录数失败. %v", params.Encode())
	}

	count, err := common.ToInt64(raw)
	if err != nil {
		return 0, errors.Trace(err)
	}

	return count, nil
}

func taskParams(taskId int64, tableName string) url.Values {
	params := url.Values{}
	params.Set("taskId", strconv.FormatInt(taskId, 10))
	if tableName != "" {
		params.Set("tableName", tableName)
	}

	return params
}
