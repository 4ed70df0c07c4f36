package service

import (
	"context"
	"fmt"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/daiguadaidai/go-d-console/parser"
	"github.com/juju/errors"
)

/* 数据库连接列表
Params:
    _search: 按 主机/数据库名/参数 过滤, 不区分大小写
*/
func (this *Console) ListDatabases(ctx context.Context, _search string) error {
	databases, err := this.DatabaseDao.GetAll(ctx)
	if err != nil {
		return errors.Trace(err)
	}

	matched := make([]*model.Database, 0, len(databases))
	for _, database := range databases {
		if _search == "" ||
			common.ContainsIgnoreCase(database.Host, _search) ||
			common.ContainsIgnoreCase(database.DbName, _search) ||
			common.ContainsIgnoreCase(database.Param, _search) {

			matched = append(matched, database)
		}
	}

	this.Printer.PrintDatabases(matched)

	return nil
}

func (this *Console) getDatabase(ctx context.Context, _id int64) (*model.Database, error) {
	if err := parser.DetectDatabaseIdInput(_id); err != nil {
		return nil, err
	}

	database, err := this.DatabaseDao.GetById(ctx, _id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if database == nil {
		return nil, errors.NotFoundf("数据库连接. id: %v", _id)
	}

	return database, nil
}

func (this *Console) GetDatabase(ctx context.Context, _id int64) error {
	database, err := this.getDatabase(ctx, _id)
	if err != nil {
		return err
	}

	this.Printer.PrintDatabase(database)

	return nil
}

func (this *Console) AddDatabase(ctx context.Context, _parser *parser.DatabaseParser) error {
	if err := _parser.Parse(); err != nil {
		return err
	}

	if err := this.DatabaseDao.Add(ctx, _parser.Database); err != nil {
		return errors.Trace(err)
	}
	this.Printer.Infof("添加数据库连接成功: %v", _parser.Database.GetDisplayName())

	return nil
}

// 修改数据库连接, 没有指定的字段使用原来的值
func (this *Console) UpdateDatabase(ctx context.Context, _parser *parser.DatabaseParser) error {
	database, err := this.getDatabase(ctx, _parser.Id)
	if err != nil {
		return err
	}

	_parser.FillFromDatabase(database)
	if err := _parser.Parse(); err != nil {
		return err
	}

	if err := this.DatabaseDao.Update(ctx, _parser.Database); err != nil {
		return errors.Trace(err)
	}
	this.Printer.Infof("修改数据库连接成功: %v", _parser.Database.GetDisplayName())

	return nil
}

func (this *Console) DeleteDatabase(ctx context.Context, _id int64) error {
	database, err := this.getDatabase(ctx, _id)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("确定要删除数据库连接 [%v] 吗?", database.GetDisplayName())
	if !this.Confirmer.Confirm(prompt) {
		this.Printer.Infof("已取消")
		return nil
	}

	if err := this.DatabaseDao.Delete(ctx, _id); err != nil {
		return errors.Trace(err)
	}
	this.Printer.Infof("删除数据库连接成功: %v", database.GetDisplayName())

	return nil
}

/* 启用/停用 数据库连接
Params:
    _id: 数据库连接ID
    _enabled: true 启用, false 停用
*/
func (this *Console) SetDatabaseStatus(ctx context.Context, _id int64, _enabled bool) error {
	database, err := this.getDatabase(ctx, _id)
	if err != nil {
		return err
	}

	status := model.DATABASE_STATUS_DISABLED
	if _enabled {
		status = model.DATABASE_STATUS_ENABLED
	}
	if err := this.DatabaseDao.UpdateStatus(ctx, _id, status); err != nil {
		return errors.Trace(err)
	}
	database.Status = status
	this.Printer.Infof("数据库连接 [%v] 已%v", database.GetDisplayName(), database.StatusLabel())

	return nil
}

// 测试连接. 只指定了 id 时使用已保存的连接信息
func (this *Console) TestDatabase(ctx context.Context, _parser *parser.DatabaseParser) error {
	if _parser.Id > 0 {
		database, err := this.getDatabase(ctx, _parser.Id)
		if err != nil {
			return err
		}
		_parser.FillFromDatabase(database)
	}
	if err := _parser.Parse(); err != nil {
		return err
	}

	connected, err := this.DatabaseDao.TestConnection(ctx, _parser.Database)
	if err != nil {
		return errors.Trace(err)
	}

	if connected {
		this.Printer.Infof("连接成功: %v", _parser.Database.GetDisplayName())
	} else {
		this.Printer.Infof("连接失败: %v", _parser.Database.GetDisplayName())
	}

	return nil
}

func (this *Console) ListTables(ctx context.Context, _databaseId int64) error {
	if _, err := this.getDatabase(ctx, _databaseId); err != nil {
		return err
	}

	tables, err := this.DatabaseDao.GetAllTables(ctx, _databaseId)
	if err != nil {
		return errors.Trace(err)
	}
	this.Printer.PrintTables(tables)

	return nil
}

func (this *Console) ListColumns(ctx context.Context, _databaseId int64, _tableName string) error {
	if err := parser.DetectDatabaseIdInput(_databaseId); err != nil {
		return err
	}
	if _tableName == "" {
		return errors.NotValidf("表名不能为空. %v", common.CurrLine())
	}

	columns, err := this.DatabaseDao.GetTableColumns(ctx, _databaseId, _tableName)
	if err != nil {
		return errors.Trace(err)
	}
	this.Printer.PrintColumns(columns)

	return nil
}
