package monitor

import (
	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
)

const (
	PROGRESS_ONGOING_LABEL   = "持续进行中"
	PROGRESS_ONGOING_PERCENT = 99 // 持续进行中的表, 进度条固定显示的值
	PROGRESS_BAR_SUCCESS     = "success"
)

// 表同步详情中的一行, 所有数值都已经转化完成
type TableRow struct {
	TableName      string
	StartTime      model.JsonTime
	InsertCount    int64
	UpdateCount    int64
	DeleteCount    int64
	SyncCount      int64
	ExceptionCount int64
	Progress       float64 // 原始进度, -1 表示持续进行中
	Ongoing        bool
	ProgressLabel  string  // 如: 42.00% / 持续进行中
	BarPercent     float64 // 进度条显示的百分比
	BarStatus      string  // 进度条状态, 持续进行中为 success
	LastUpdateTime model.JsonTime
}

// 表是否有异常记录, 只有有异常的表才能查看异常详情
func (this *TableRow) HasExceptions() bool {
	return this.ExceptionCount > 0
}

/* 格式化进度, 先判断是否是持续进行中, 再按百分比格式化
Params:
    _progress: 进度
*/
func FormatProgress(_progress float64) string {
	if IsOngoing(_progress) {
		return PROGRESS_ONGOING_LABEL
	}

	return common.FormatFixed2(_progress) + "%"
}

func IsOngoing(_progress float64) bool {
	return _progress == model.PROGRESS_ONGOING
}

/* 将后端返回的表统计转化成展示行. 无法解析的数值使用 0, 不会返回错误
Params:
    _stat: 后端返回的表统计
*/
func NormalizeTableStat(_stat *model.TableStat) *TableRow {
	row := &TableRow{
		TableName:      _stat.TableName,
		StartTime:      _stat.StartTime,
		InsertCount:    toCount(_stat.TableName, "insertCount", _stat.InsertCount),
		UpdateCount:    toCount(_stat.TableName, "updateCount", _stat.UpdateCount),
		DeleteCount:    toCount(_stat.TableName, "deleteCount", _stat.DeleteCount),
		SyncCount:      toCount(_stat.TableName, "syncCount", _stat.SyncCount),
		ExceptionCount: toCount(_stat.TableName, "exceptionCount", _stat.ExceptionCount),
		LastUpdateTime: _stat.LastUpdateTime,
	}

	progress, err := common.ToFloat64(_stat.Progress)
	if err != nil {
		logger.M.Warnf("表[%v]同步进度无法解析, 使用0. %v", _stat.TableName, err)
		progress = 0
	}
	row.Progress = progress
	row.Ongoing = IsOngoing(progress)
	row.ProgressLabel = FormatProgress(progress)

	if row.Ongoing {
		row.BarPercent = PROGRESS_ONGOING_PERCENT
		row.BarStatus = PROGRESS_BAR_SUCCESS
	} else {
		row.BarPercent = clampPercent(progress)
	}

	return row
}

func NormalizeTableStats(_stats []*model.TableStat) []*TableRow {
	rows := make([]*TableRow, 0, len(_stats))
	for _, stat := range _stats {
		if stat == nil {
			continue
		}
		rows = append(rows, NormalizeTableStat(stat))
	}

	return rows
}

func toCount(_tableName string, _field string, _data interface{}) int64 {
	count, err := common.ToInt64(_data)
	if err != nil {
		logger.M.Warnf("表[%v]字段[%v]无法解析, 使用0. %v", _tableName, _field, err)
		return 0
	}

	return count
}

func clampPercent(_p float64) float64 {
	if _p < 0 {
		return 0
	}
	if _p > 100 {
		return 100
	}

	return _p
}
