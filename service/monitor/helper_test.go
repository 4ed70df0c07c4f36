package monitor

import (
	"testing"

	"github.com/daiguadaidai/go-d-console/dao"
	"github.com/daiguadaidai/go-d-console/dao/daotest"
	"github.com/daiguadaidai/go-d-console/model"
)

type testEnv struct {
	fake         *daotest.FakeBackend
	databaseDao  *dao.DatabaseDao
	taskDao      *dao.SyncTaskDao
	exceptionDao *dao.SyncExceptionDao
	source       *model.Database
	target       *model.Database
}

func newTestEnv(t *testing.T) *testEnv {
	fake := daotest.NewFakeBackend()
	t.Cleanup(fake.Close)

	client := fake.NewClient(nil)
	env := &testEnv{
		fake:         fake,
		databaseDao:  &dao.DatabaseDao{Client: client},
		taskDao:      &dao.SyncTaskDao{Client: client},
		exceptionDao: &dao.SyncExceptionDao{Client: client},
	}
	env.source = fake.AddDatabase(&model.Database{Host: "10.0.0.1", Port: 3306, DbName: "shop", Status: 1}, "user", "order")
	env.target = fake.AddDatabase(&model.Database{Host: "10.0.0.2", Port: 3307, DbName: "shop_bak", Status: 1})

	return env
}

func (this *testEnv) addTask(name string, status int) *model.SyncTask {
	return this.fake.AddTask(&model.SyncTask{
		TaskName:   name,
		SourceDbId: this.source.Id,
		TargetDbId: this.target.Id,
		SyncType:   model.SYNC_TYPE_INCREMENTAL,
		Tables:     `[{"sourceTable":"user","targetTable":"user"},{"sourceTable":"order","targetTable":"order"}]`,
		Status:     status,
	})
}

func (this *testEnv) directory() *DatabaseDirectory {
	return NewDatabaseDirectory(this.databaseDao)
}

func (this *testEnv) gate(confirmer Confirmer) *ActionGate {
	return NewActionGate(this.taskDao, confirmer)
}

// 记录确认提示, 返回固定结果
type recordConfirmer struct {
	answer  bool
	prompts []string
}

func (this *recordConfirmer) Confirm(prompt string) bool {
	this.prompts = append(this.prompts, prompt)
	return this.answer
}
