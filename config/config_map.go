package config

import (
	"context"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

type DatabaseLookup interface {
	GetById(ctx context.Context, id int64) (*model.Database, error)
	GetAllTables(ctx context.Context, databaseId int64) ([]string, error)
}

// 一个同步任务完整的配置: 任务, 源和目标数据库, 表映射
type TaskConfigMap struct {
	Task *model.SyncTask

	Source *model.Database // 源数据库
	Target *model.Database // 目标数据库

	TableMapMap  map[string]*model.TableMap // 表映射信息, key 为源表名
	SourceTables map[string]bool            // 源数据库中所有的表

	lookup DatabaseLookup
}

// 设置源实例信息
func (this *TaskConfigMap) InitSource(ctx context.Context) error {
	source, err := this.getDatabase(ctx, this.Task.SourceDbId, "源数据库")
	if err != nil {
		return err
	}
	this.Source = source

	return nil
}

// 设置目标实例信息
func (this *TaskConfigMap) InitTarget(ctx context.Context) error {
	target, err := this.getDatabase(ctx, this.Task.TargetDbId, "目标数据库")
	if err != nil {
		return err
	}
	this.Target = target

	return nil
}

func (this *TaskConfigMap) getDatabase(ctx context.Context, _id int64, _name string) (*model.Database, error) {
	database, err := this.lookup.GetById(ctx, _id)
	if err != nil {
		return nil, errors.Annotatef(err, "获取%v失败. id: %v %v", _name, _id, common.CurrLine())
	}
	if database == nil {
		return nil, errors.NotFoundf("%v. id: %v, 可能已经被删除", _name, _id)
	}

	return database, nil
}

/* 设置 table 映射信息
tables 字段解析失败视为没有选择表, 只记录日志
*/
func (this *TaskConfigMap) InitTableMapMap() error {
	tableMaps, err := this.Task.GetTableMaps()
	if err != nil {
		logger.M.Warnf("%v: 任务[%v]同步表解析失败, 视为没有选择表. %v", common.CurrLine(), this.Task.TaskName, err)
	}

	this.TableMapMap = MakeTableMapMap(tableMaps)

	return nil
}

// 获取源数据库中所有的表
func (this *TaskConfigMap) InitSourceTables(ctx context.Context) error {
	tables, err := this.lookup.GetAllTables(ctx, this.Source.Id)
	if err != nil {
		return errors.Annotatef(err, "获取源数据库表失败. %v", this.Source.GetDisplayName())
	}

	this.SourceTables = MakeTableNameSet(tables)

	return nil
}

// 检测需要同步的表在源数据库中都存在
func (this *TaskConfigMap) CheckTables() error {
	if len(this.TableMapMap) == 0 {
		return errors.NotValidf("同步表, 请至少选择一个表")
	}

	missing := make([]string, 0)
	for _, tableName := range this.SourceTableNames() {
		if !this.SourceTables[tableName] {
			missing = append(missing, tableName)
		}
	}
	if len(missing) > 0 {
		return errors.NotFoundf("源数据库[%v]中的表 %v", this.Source.GetDisplayName(), missing)
	}

	return nil
}

// 按任务中的顺序返回源表名
func (this *TaskConfigMap) SourceTableNames() []string {
	tableMaps, _ := this.Task.GetTableMaps()
	names := make([]string, 0, len(tableMaps))
	for _, tableName := range model.SourceTableNames(tableMaps) {
		if _, ok := this.TableMapMap[GetTableKey(tableName)]; ok {
			names = append(names, tableName)
		}
	}

	return names
}

/* 获取任务完整的配置, 用于展示任务详情
Params:
    _task: 任务
*/
func NewTaskConfigMap(ctx context.Context, _lookup DatabaseLookup, _task *model.SyncTask) (*TaskConfigMap, error) {
	configMap := &TaskConfigMap{Task: _task, lookup: _lookup}

	// 获取源实例信息
	if err := configMap.InitSource(ctx); err != nil {
		return nil, err
	}

	// 获取目标实例信息
	if err := configMap.InitTarget(ctx); err != nil {
		return nil, err
	}

	// 获取需要同步的 table
	if err := configMap.InitTableMapMap(); err != nil {
		return nil, err
	}

	return configMap, nil
}

/* 检测需要提交的任务配置, 添加和修改任务之前调用
源和目标数据库必须存在, 同步的表必须在源数据库中存在
Params:
    _task: 需要提交的任务
*/
func NewCheckedTaskConfigMap(ctx context.Context, _lookup DatabaseLookup, _task *model.SyncTask) (*TaskConfigMap, error) {
	configMap, err := NewTaskConfigMap(ctx, _lookup, _task)
	if err != nil {
		return nil, err
	}

	// 获取源数据库中的表
	if err := configMap.InitSourceTables(ctx); err != nil {
		return nil, err
	}

	// 检测表是否存在
	if err := configMap.CheckTables(); err != nil {
		return nil, err
	}

	return configMap, nil
}
