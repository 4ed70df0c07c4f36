package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/daiguadaidai/go-d-console/dao"
	"github.com/daiguadaidai/go-d-console/dao/daotest"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
)

func newTaskParser() *TaskParser {
	return &TaskParser{
		TaskName:   "order-sync",
		SourceDbId: 1,
		TargetDbId: 2,
		SyncType:   model.SYNC_TYPE_FULL,
		Tables:     "user, order",
	}
}

func TestTaskParser_Parse(t *testing.T) {
	taskParser := newTaskParser()
	require.NoError(t, taskParser.Parse())
	require.Equal(t, model.DEFAULT_STARTUP_OPTIONS, taskParser.StartupOptions)
	require.Len(t, taskParser.TableMaps, 2)

	task, err := taskParser.ToSyncTask()
	require.NoError(t, err)
	require.Equal(t, `[{"sourceTable":"user","targetTable":"user"},{"sourceTable":"order","targetTable":"order"}]`, task.Tables)
	require.Equal(t, model.DEFAULT_STARTUP_OPTIONS, task.StartupOptions)
}

func TestTaskParser_TaskName(t *testing.T) {
	for _, name := range []string{"", "a", " b ", strings.Repeat("x", 51)} {
		taskParser := newTaskParser()
		taskParser.TaskName = name
		err := taskParser.Parse()
		require.True(t, errors.IsNotValid(err), "name: %#v", name)
	}

	for _, name := range []string{"ab", "订单", strings.Repeat("同", 50)} {
		taskParser := newTaskParser()
		taskParser.TaskName = name
		require.NoError(t, taskParser.Parse(), "name: %#v", name)
	}
}

func TestTaskParser_Invalid(t *testing.T) {
	taskParser := newTaskParser()
	taskParser.SourceDbId = 0
	require.True(t, errors.IsNotValid(taskParser.Parse()))

	taskParser = newTaskParser()
	taskParser.SyncType = 3
	require.True(t, errors.IsNotValid(taskParser.Parse()))

	taskParser = newTaskParser()
	taskParser.Tables = " , "
	require.True(t, errors.IsNotValid(taskParser.Parse()))

	taskParser = newTaskParser()
	taskParser.Tables = `[{"sourceTable":`
	require.True(t, errors.IsNotValid(taskParser.Parse()))

	taskParser = newTaskParser()
	taskParser.StartupOptions = "{bad"
	require.True(t, errors.IsNotValid(taskParser.Parse()))
}

func TestTaskParser_FillFromTask(t *testing.T) {
	taskParser := &TaskParser{SyncType: -1, TaskName: "renamed"}
	taskParser.FillFromTask(&model.SyncTask{
		Id:             9,
		TaskName:       "old",
		SourceDbId:     1,
		TargetDbId:     2,
		SyncType:       model.SYNC_TYPE_INCREMENTAL,
		Tables:         `[{"sourceTable":"a","targetTable":"b"}]`,
		StartupOptions: `{"type":"latest"}`,
	})
	require.NoError(t, taskParser.Parse())

	task, err := taskParser.ToSyncTask()
	require.NoError(t, err)
	require.Equal(t, int64(9), task.Id)
	require.Equal(t, "renamed", task.TaskName)
	require.Equal(t, model.SYNC_TYPE_INCREMENTAL, task.SyncType)
	require.Equal(t, "b", taskParser.TableMaps[0].TargetTable)
	require.Equal(t, `{"type":"latest"}`, task.StartupOptions)
}

func TestDatabaseParser_Dsn(t *testing.T) {
	databaseParser := &DatabaseParser{Dsn: "root:pw@tcp(10.0.0.1:3307)/shop?charset=utf8mb4", Param: "useSSL=false"}
	require.NoError(t, databaseParser.Parse())

	db := databaseParser.Database
	require.Equal(t, "10.0.0.1", db.Host)
	require.Equal(t, int64(3307), db.Port)
	require.Equal(t, "shop", db.DbName)
	require.Equal(t, "root", db.Username)
	require.Equal(t, "pw", db.Password)
	require.Equal(t, "useSSL=false", db.Param)
	require.True(t, db.IsEnabled())
}

func TestDatabaseParser_Fields(t *testing.T) {
	databaseParser := &DatabaseParser{Host: "h", DbName: "d", Username: "u", Disabled: true}
	require.NoError(t, databaseParser.Parse())
	require.Equal(t, int64(DEFAULT_MYSQL_PORT), databaseParser.Database.Port)
	require.False(t, databaseParser.Database.IsEnabled())

	require.True(t, errors.IsNotValid((&DatabaseParser{DbName: "d", Username: "u"}).Parse()))
	require.True(t, errors.IsNotValid((&DatabaseParser{Host: "h", Username: "u"}).Parse()))
	require.True(t, errors.IsNotValid((&DatabaseParser{Host: "h", DbName: "d"}).Parse()))
	require.True(t, errors.IsNotValid((&DatabaseParser{Host: "h", DbName: "d", Username: "u", Port: 70000}).Parse()))
	require.True(t, errors.IsNotValid((&DatabaseParser{Dsn: "not a dsn"}).Parse()))
}

func TestDatabaseParser_FillFromDatabase(t *testing.T) {
	databaseParser := &DatabaseParser{Port: 3308}
	databaseParser.FillFromDatabase(&model.Database{Id: 5, Host: "h", Port: 3306, DbName: "d", Username: "u"})
	require.NoError(t, databaseParser.Parse())

	db := databaseParser.Database
	require.Equal(t, int64(5), db.Id)
	require.Equal(t, int64(3308), db.Port)
	require.Empty(t, db.Password)
	require.False(t, db.IsEnabled())
}

func TestListParser(t *testing.T) {
	listParser := &ListParser{Search: " order ", Status: ALL_STATUS}
	require.NoError(t, listParser.Parse())
	filter := listParser.Filter()
	require.Equal(t, "order", filter.Search)
	require.Nil(t, filter.Status)

	listParser = &ListParser{Status: model.TASK_STATUS_RUNNING}
	require.NoError(t, listParser.Parse())
	require.Equal(t, model.TASK_STATUS_RUNNING, *listParser.Filter().Status)
	require.Equal(t, 30*time.Second, listParser.GetInterval(30*time.Second))

	require.True(t, errors.IsNotValid((&ListParser{Status: -2}).Parse()))
}

func TestMonitorParser(t *testing.T) {
	require.True(t, errors.IsNotValid((&MonitorParser{}).Parse()))

	monitorParser := &MonitorParser{TaskId: 1, Interval: 3}
	require.NoError(t, monitorParser.Parse())
	require.Equal(t, 3*time.Second, monitorParser.GetInterval(10*time.Second))
}

func TestDetectTask(t *testing.T) {
	fake := daotest.NewFakeBackend()
	defer fake.Close()
	taskDao := &dao.SyncTaskDao{Client: fake.NewClient(nil)}
	task := fake.AddTask(&model.SyncTask{TaskName: "running", Status: model.TASK_STATUS_RUNNING})
	ctx := context.Background()

	_, err := DetectTask(ctx, taskDao, 0)
	require.True(t, errors.IsNotValid(err))

	_, err = DetectTask(ctx, taskDao, 12345)
	require.Error(t, err)

	found, err := DetectTask(ctx, taskDao, task.Id)
	require.NoError(t, err)
	require.True(t, errors.IsNotValid(DetectTaskNotRunning(found)))

	require.True(t, errors.IsNotValid(DetectDatabaseIdInput(-1)))
}
