package config

import (
	"context"
	"testing"

	"github.com/daiguadaidai/go-d-console/dao"
	"github.com/daiguadaidai/go-d-console/dao/daotest"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

func newLookup(t *testing.T) (*daotest.FakeBackend, *dao.DatabaseDao, *model.Database, *model.Database) {
	fake := daotest.NewFakeBackend()
	t.Cleanup(fake.Close)

	source := fake.AddDatabase(&model.Database{Host: "10.0.0.1", Port: 3306, DbName: "shop"}, "user", "order", "item")
	target := fake.AddDatabase(&model.Database{Host: "10.0.0.2", Port: 3306, DbName: "shop_bak"})

	return fake, &dao.DatabaseDao{Client: fake.NewClient(nil)}, source, target
}

func TestNewTaskConfigMap(t *testing.T) {
	_, lookup, source, target := newLookup(t)
	task := &model.SyncTask{
		TaskName:   "order-sync",
		SourceDbId: source.Id,
		TargetDbId: target.Id,
		Tables:     `[{"sourceTable":"order","targetTable":"order"},{"sourceTable":"user","targetTable":"user_bak"}]`,
	}

	configMap, err := NewCheckedTaskConfigMap(context.Background(), lookup, task)
	if err != nil {
		t.Fatalf("检测任务配置失败: %v", err)
	}

	if configMap.Source.GetDisplayName() != "10.0.0.1:3306/shop" {
		t.Errorf("源数据库错误: %v", configMap.Source.GetDisplayName())
	}
	if configMap.Target.GetDisplayName() != "10.0.0.2:3306/shop_bak" {
		t.Errorf("目标数据库错误: %v", configMap.Target.GetDisplayName())
	}
	if configMap.TableMapMap["user"].TargetTable != "user_bak" {
		t.Errorf("表映射错误: %v", configMap.TableMapMap["user"])
	}

	names := configMap.SourceTableNames()
	if len(names) != 2 || names[0] != "order" || names[1] != "user" {
		t.Errorf("源表顺序错误: %v", names)
	}
}

func TestNewCheckedTaskConfigMap_MissingTable(t *testing.T) {
	_, lookup, source, target := newLookup(t)
	task := &model.SyncTask{SourceDbId: source.Id, TargetDbId: target.Id, Tables: "order, payment"}

	_, err := NewCheckedTaskConfigMap(context.Background(), lookup, task)
	if !errors.IsNotFound(err) {
		t.Errorf("源数据库中不存在的表应该检测失败: %v", err)
	}
}

func TestNewCheckedTaskConfigMap_MissingDatabase(t *testing.T) {
	_, lookup, source, _ := newLookup(t)
	task := &model.SyncTask{SourceDbId: source.Id, TargetDbId: 9999, Tables: "order"}

	_, err := NewCheckedTaskConfigMap(context.Background(), lookup, task)
	if !errors.IsNotFound(err) {
		t.Errorf("目标数据库不存在应该检测失败: %v", err)
	}
}

// tables 字段无法解析时视为没有选择表
func TestNewTaskConfigMap_MalformedTables(t *testing.T) {
	_, lookup, source, target := newLookup(t)
	task := &model.SyncTask{SourceDbId: source.Id, TargetDbId: target.Id, Tables: "[broken"}

	configMap, err := NewTaskConfigMap(context.Background(), lookup, task)
	if err != nil {
		t.Fatalf("解析失败不应该返回错误: %v", err)
	}
	if len(configMap.TableMapMap) != 0 {
		t.Errorf("应该没有表: %v", configMap.TableMapMap)
	}

	_, err = NewCheckedTaskConfigMap(context.Background(), lookup, task)
	if !errors.IsNotValid(err) {
		t.Errorf("没有表应该检测失败: %v", err)
	}
}
