package parser

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

const (
	TASK_NAME_MIN_LEN = 2
	TASK_NAME_MAX_LEN = 50
)

// 添加/修改任务时用于接收和保存 命令行输入的参数值
type TaskParser struct {
	TaskId int64 // 修改任务时指定

	TaskName   string // 任务名称
	SourceDbId int64  // 源数据库ID
	TargetDbId int64  // 目标数据库ID
	SyncType   int    // 0: 全量同步, 1: 增量同步

	Tables         string // 同步的表, 逗号分隔 或 json 数组: [{"sourceTable":"a","targetTable":"a"}]
	StartupOptions string // 启动选项 json, 默认: {"type":"initial"}

	TableMaps []*model.TableMap // 解析之后的表映射
}

// 对输入的命令进行检测
func (this *TaskParser) Parse() error {
	if err := this.ParseTaskName(); err != nil {
		return err
	}

	if err := this.ParseDatabaseIds(); err != nil {
		return err
	}

	if err := this.ParseSyncType(); err != nil {
		return err
	}

	if err := this.ParseTables(); err != nil {
		return err
	}

	return this.ParseStartupOptions()
}

// 任务名称长度 2~50 个字符
func (this *TaskParser) ParseTaskName() error {
	this.TaskName = strings.TrimSpace(this.TaskName)

	length := utf8.RuneCountInString(this.TaskName)
	if length < TASK_NAME_MIN_LEN || length > TASK_NAME_MAX_LEN {
		return errors.NotValidf("任务名称[%v], 长度在 %v 到 %v 个字符. %v",
			this.TaskName, TASK_NAME_MIN_LEN, TASK_NAME_MAX_LEN, common.CurrLine())
	}

	return nil
}

func (this *TaskParser) ParseDatabaseIds() error {
	if this.SourceDbId <= 0 {
		return errors.NotValidf("源数据库, 请选择源数据库. %v", common.CurrLine())
	}
	if this.TargetDbId <= 0 {
		return errors.NotValidf("目标数据库, 请选择目标数据库. %v", common.CurrLine())
	}

	return nil
}

func (this *TaskParser) ParseSyncType() error {
	if this.SyncType != model.SYNC_TYPE_FULL && this.SyncType != model.SYNC_TYPE_INCREMENTAL {
		return errors.NotValidf("同步类型 %v, 只能是 0(全量同步) 或 1(增量同步). %v", this.SyncType, common.CurrLine())
	}

	return nil
}

// 解析同步的表, 至少需要一个表
func (this *TaskParser) ParseTables() error {
	tableMaps, err := model.ParseTableMaps(this.Tables)
	if err != nil {
		return errors.NotValidf("同步表[%v]. %v. %v", this.Tables, err, common.CurrLine())
	}
	if len(tableMaps) == 0 {
		return errors.NotValidf("同步表, 请至少选择一个表. %v", common.CurrLine())
	}

	this.TableMaps = tableMaps

	return nil
}

func (this *TaskParser) ParseStartupOptions() error {
	this.StartupOptions = strings.TrimSpace(this.StartupOptions)
	if this.StartupOptions == "" {
		this.StartupOptions = model.DEFAULT_STARTUP_OPTIONS
		logger.M.Debugf("没有指定启动选项. 使用默认值: %v", model.DEFAULT_STARTUP_OPTIONS)
		return nil
	}

	if !json.Valid([]byte(this.StartupOptions)) {
		return errors.NotValidf("启动选项[%v], 必须是 json. %v", this.StartupOptions, common.CurrLine())
	}

	return nil
}

// 生成需要提交的任务, 需要先调用 Parse
func (this *TaskParser) ToSyncTask() (*model.SyncTask, error) {
	tables, err := model.FormatTableMaps(this.TableMaps)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return &model.SyncTask{
		Id:             this.TaskId,
		TaskName:       this.TaskName,
		SourceDbId:     this.SourceDbId,
		TargetDbId:     this.TargetDbId,
		SyncType:       this.SyncType,
		Tables:         tables,
		StartupOptions: this.StartupOptions,
	}, nil
}

/* 修改任务时, 没有在命令行指定的字段使用原来的值
Params:
    _task: 原来的任务
*/
func (this *TaskParser) FillFromTask(_task *model.SyncTask) {
	this.TaskId = _task.Id
	if strings.TrimSpace(this.TaskName) == "" {
		this.TaskName = _task.TaskName
	}
	if this.SourceDbId <= 0 {
		this.SourceDbId = _task.SourceDbId
	}
	if this.TargetDbId <= 0 {
		this.TargetDbId = _task.TargetDbId
	}
	if this.SyncType < 0 {
		this.SyncType = _task.SyncType
	}
	if strings.TrimSpace(this.Tables) == "" {
		this.Tables = _task.Tables
	}
	if strings.TrimSpace(this.StartupOptions) == "" {
		this.StartupOptions = _task.StartupOptions
	}
}
