package monitor

import (
	"context"
	"sync"

	"github.com/cevaris/ordered_map"
	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

// 获取数据库连接列表
type DatabaseLister interface {
	GetAll(ctx context.Context) ([]*model.Database, error)
}

/* 数据库目录缓存. 每个视图自己持有一份, 每次刷新都是全量覆盖.
key 为数据库 id, value 为 *model.Database, 保持后端返回的顺序.
*/
type DatabaseDirectory struct {
	lister DatabaseLister

	mu        sync.RWMutex
	databases *ordered_map.OrderedMap
}

func NewDatabaseDirectory(_lister DatabaseLister) *DatabaseDirectory {
	return &DatabaseDirectory{
		lister:    _lister,
		databases: ordered_map.NewOrderedMap(),
	}
}

// 获取全部数据库连接并重建缓存, 失败时保留之前的缓存
func (this *DatabaseDirectory) Refresh(ctx context.Context) error {
	databases, err := this.lister.GetAll(ctx)
	if err != nil {
		return errors.Annotatef(err, "刷新数据库目录失败 %v", common.CurrLine())
	}

	this.Replace(databases)

	return nil
}

// 使用已经获取到的列表重建缓存
func (this *DatabaseDirectory) Replace(_databases []*model.Database) {
	databases := ordered_map.NewOrderedMap()
	for _, db := range _databases {
		if db == nil {
			continue
		}
		databases.Set(db.Id, db)
	}

	this.mu.Lock()
	this.databases = databases
	this.mu.Unlock()
}

// 返回 host:port/dbName, 不存在的 id(比如数据库已经被删除) 返回 "-"
func (this *DatabaseDirectory) DisplayName(_id int64) string {
	db, ok := this.Get(_id)
	if !ok {
		return common.PLACEHOLDER
	}

	return db.GetDisplayName()
}

func (this *DatabaseDirectory) Get(_id int64) (*model.Database, bool) {
	this.mu.RLock()
	defer this.mu.RUnlock()

	value, ok := this.databases.Get(_id)
	if !ok {
		return nil, false
	}

	return value.(*model.Database), true
}

// 按后端返回顺序获取所有数据库连接
func (this *DatabaseDirectory) Databases() []*model.Database {
	this.mu.RLock()
	defer this.mu.RUnlock()

	databases := make([]*model.Database, 0, this.databases.Len())
	iter := this.databases.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		databases = append(databases, kv.Value.(*model.Database))
	}

	return databases
}

func (this *DatabaseDirectory) Len() int {
	this.mu.RLock()
	defer this.mu.RUnlock()

	return this.databases.Len()
}
