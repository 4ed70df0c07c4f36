package monitor

import (
	"context"

	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

type ExceptionFinder interface {
	FindByTaskId(ctx context.Context, taskId int64) ([]*model.SyncException, error)
	FindByTaskIdAndTableName(ctx context.Context, taskId int64, tableName string) ([]*model.SyncException, error)
}

// 异常详情中的一条
type ExceptionRecord struct {
	Id          int64
	TableName   string
	ErrorDetail string
	ErrorTime   model.JsonTime
}

// 某一个表的异常详情, 只在打开的时候获取一次, 不跟随轮询刷新
type ExceptionOverlay struct {
	TaskId    int64
	TableName string
	Errors    []*ExceptionRecord
}

type ExceptionDrillDown struct {
	finder ExceptionFinder
}

func NewExceptionDrillDown(_finder ExceptionFinder) *ExceptionDrillDown {
	return &ExceptionDrillDown{finder: _finder}
}

/* 获取某个表的异常记录. 表没有异常时不发送请求, 返回 nil
Params:
    _taskId: 任务ID
    _row: 表同步详情中的一行
*/
func (this *ExceptionDrillDown) LoadErrors(ctx context.Context, _taskId int64, _row *TableRow) (*ExceptionOverlay, error) {
	if _row == nil || !_row.HasExceptions() {
		return nil, nil
	}

	exceptions, err := this.finder.FindByTaskIdAndTableName(ctx, _taskId, _row.TableName)
	if err != nil {
		return nil, errors.Annotatef(err, "获取表异常记录失败. task id: %v, table: %v", _taskId, _row.TableName)
	}

	return &ExceptionOverlay{
		TaskId:    _taskId,
		TableName: _row.TableName,
		Errors:    toExceptionRecords(exceptions),
	}, nil
}

// 获取整个任务的异常记录
func (this *ExceptionDrillDown) LoadTaskErrors(ctx context.Context, _taskId int64) ([]*ExceptionRecord, error) {
	exceptions, err := this.finder.FindByTaskId(ctx, _taskId)
	if err != nil {
		return nil, errors.Annotatef(err, "获取任务异常记录失败. task id: %v", _taskId)
	}

	return toExceptionRecords(exceptions), nil
}

func toExceptionRecords(_exceptions []*model.SyncException) []*ExceptionRecord {
	records := make([]*ExceptionRecord, 0, len(_exceptions))
	for _, exception := range _exceptions {
		if exception == nil {
			continue
		}
		records = append(records, &ExceptionRecord{
			Id:          exception.Id,
			TableName:   exception.TableName,
			ErrorDetail: exception.ErrorMessage,
			ErrorTime:   exception.ErrorTime,
		})
	}

	return records
}
