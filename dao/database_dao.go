package dao

import (
	"context"
	"net/url"
	"strconv"

	"github.com/daiguadaidai/go-d-console/gclient"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

type DatabaseDao struct {
	Client *gclient.Client
}

func (this *DatabaseDao) GetAll(ctx context.Context) ([]*model.Database, error) {
	databases := make([]*model.Database, 0)
	if err := this.Client.Get(ctx, "/db/getAllDatabases", nil, &databases); err != nil {
		return nil, errors.Annotate(err, "获取所有数据库连接失败")
	}

	return databases, nil
}

// 没有找到返回 nil, nil
func (this *DatabaseDao) GetById(ctx context.Context, id int64) (*model.Database, error) {
	var database *model.Database
	if err := this.Client.Get(ctx, "/db/getDatabaseById", idParams(id), &database); err != nil {
		return nil, errors.Annotatef(err, "获取数据库连接失败. id: %v", id)
	}

	return database, nil
}

func (this *DatabaseDao) Add(ctx context.Context, database *model.Database) error {
	if err := this.Client.Post(ctx, "/db/addDatabase", nil, database, nil); err != nil {
		return errors.Annotatef(err, "添加数据库连接失败. %v", database.GetDisplayName())
	}

	return nil
}

// database 中需要包含 id
func (this *DatabaseDao) Update(ctx context.Context, database *model.Database) error {
	if err := this.Client.Post(ctx, "/db/updateDatabase", nil, database, nil); err != nil {
		return errors.Annotatef(err, "更新数据库连接失败. id: %v", database.Id)
	}

	return nil
}

func (this *DatabaseDao) Delete(ctx context.Context, id int64) error {
	if err := this.Client.Post(ctx, "/db/deleteDatabase", idParams(id), nil, nil); err != nil {
		return errors.Annotatef(err, "删除数据库连接失败. id: %v", id)
	}

	return nil
}

func (this *DatabaseDao) UpdateStatus(ctx context.Context, id int64, status int) error {
	body := map[string]interface{}{
		"id":     id,
		"status": status,
	}
	if err := this.Client.Post(ctx, "/db/updateStatus", nil, body, nil); err != nil {
		return errors.Annotatef(err, "修改数据库连接状态失败. id: %v, status: %v", id, status)
	}

	return nil
}

// 返回后端是否能连接上数据库
func (this *DatabaseDao) TestConnection(ctx context.Context, database *model.Database) (bool, error) {
	var ok bool
	if err := this.Client.Post(ctx, "/db/testConnection", nil, database.ToTestPayload(), &ok); err != nil {
		return false, errors.Annotatef(err, "测试数据库连接失败. %v", database.GetHostPortStr())
	}

	return ok, nil
}

func (this *DatabaseDao) GetAllTables(ctx context.Context, databaseId int64) ([]string, error) {
	params := url.Values{}
	params.Set("databaseId", strconv.FormatInt(databaseId, 10))

	tables := make([]string, 0)
	if err := this.Client.Get(ctx, "/db/getAllTables", params, &tables); err != nil {
		return nil, errors.Annotatef(err, "获取数据库表失败. database id: %v", databaseId)
	}

	return tables, nil
}

// 字段信息的结构由后端决定, 这里原样返回
func (this *DatabaseDao) GetTableColumns(ctx context.Context, databaseId int64, tableName string) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Set("databaseId", strconv.FormatInt(databaseId, 10))
	params.Set("tableName", tableName)

	columns := make([]map[string]interface{}, 0)
	if err := this.Client.Get(ctx, "/db/getTableColumns", params, &columns); err != nil {
		return nil, errors.Annotatef(err, "获取表字段失败. database id: %v, table: %v", databaseId, tableName)
	}

	return columns, nil
}

func idParams(id int64) url.Values {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))

	return params
}
