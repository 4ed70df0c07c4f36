// Package daotest 提供一个内存版的同步平台后端, 供各个包的测试使用.
package daotest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/daiguadaidai/go-d-console/gclient"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/daiguadaidai/go-d-console/setting"
)

type FakeBackend struct {
	Server *httptest.Server

	mu         sync.Mutex
	databases  []*model.Database
	tables     map[int64][]string                  // database id -> 表
	tasks      []*model.SyncTask
	running    map[int64]*bool                     // 同步引擎中的运行状态, nil 表示统计中不返回 isRunning
	tableStats map[int64][]map[string]interface{} // task id -> 表统计
	exceptions []*model.SyncException
	failPaths  map[string]string // 返回业务错误的接口
	httpFail   map[string]bool   // 返回 http 500 的接口
	calls      map[string]int
	nextId     int64

	// 处理请求前调用, 可以用来制造延迟. call 从 1 开始
	BeforeHandle func(path string, call int)
}

func NewFakeBackend() *FakeBackend {
	fake := &FakeBackend{
		tables:     make(map[int64][]string),
		running:    make(map[int64]*bool),
		tableStats: make(map[int64][]map[string]interface{}),
		failPaths:  make(map[string]string),
		httpFail:   make(map[string]bool),
		calls:      make(map[string]int),
		nextId:     100,
	}
	fake.Server = httptest.NewServer(http.StripPrefix("/yxq", http.HandlerFunc(fake.handle)))

	return fake
}

func (this *FakeBackend) Close() {
	this.Server.Close()
}

// 指向该后端的客户端
func (this *FakeBackend) NewClient(notifier gclient.Notifier) *gclient.Client {
	return gclient.NewClient(&setting.ApiConfig{BaseURL: this.Server.URL + "/yxq", Timeout: 5}, notifier)
}

// 保存的是副本, 返回的也是副本, 调用方持有的对象不会被后端修改
func (this *FakeBackend) AddDatabase(db *model.Database, tables ...string) *model.Database {
	this.mu.Lock()
	defer this.mu.Unlock()

	stored := *db
	if stored.Id == 0 {
		stored.Id = this.genId()
	}
	this.databases = append(this.databases, &stored)
	this.tables[stored.Id] = tables

	returned := stored
	return &returned
}

func (this *FakeBackend) AddTask(task *model.SyncTask) *model.SyncTask {
	this.mu.Lock()
	defer this.mu.Unlock()

	stored := task.Clone()
	if stored.Id == 0 {
		stored.Id = this.genId()
	}
	this.tasks = append(this.tasks, stored)

	return stored.Clone()
}

func (this *FakeBackend) AddException(exception *model.SyncException) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if exception.Id == 0 {
		exception.Id = this.genId()
	}
	this.exceptions = append(this.exceptions, exception)
}

// 设置同步引擎中的运行状态, nil 表示统计结果中不带 isRunning
func (this *FakeBackend) SetEngineRunning(taskId int64, running *bool) {
	this.mu.Lock()
	defer this.mu.Unlock()

	this.running[taskId] = running
}

func (this *FakeBackend) SetTableStats(taskId int64, stats ...map[string]interface{}) {
	this.mu.Lock()
	defer this.mu.Unlock()

	this.tableStats[taskId] = stats
}

// 指定接口返回业务错误, msg 为空表示恢复正常
func (this *FakeBackend) FailPath(path string, msg string) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if msg == "" {
		delete(this.failPaths, path)
		return
	}
	this.failPaths[path] = msg
}

func (this *FakeBackend) FailHttp(path string, fail bool) {
	this.mu.Lock()
	defer this.mu.Unlock()

	this.httpFail[path] = fail
}

func (this *FakeBackend) Calls(path string) int {
	this.mu.Lock()
	defer this.mu.Unlock()

	return this.calls[path]
}

func (this *FakeBackend) Task(id int64) *model.SyncTask {
	this.mu.Lock()
	defer this.mu.Unlock()

	if task := this.findTask(id); task != nil {
		return task.Clone()
	}
	return nil
}

func (this *FakeBackend) Tasks() []*model.SyncTask {
	this.mu.Lock()
	defer this.mu.Unlock()

	tasks := make([]*model.SyncTask, 0, len(this.tasks))
	for _, task := range this.tasks {
		tasks = append(tasks, task.Clone())
	}
	return tasks
}

func (this *FakeBackend) Databases() []*model.Database {
	this.mu.Lock()
	defer this.mu.Unlock()

	databases := make([]*model.Database, 0, len(this.databases))
	for _, db := range this.databases {
		copied := *db
		databases = append(databases, &copied)
	}
	return databases
}

// 直接修改任务状态, 不影响引擎状态, 用来制造状态不一致
func (this *FakeBackend) SetTaskStatus(id int64, status int) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if task := this.findTask(id); task != nil {
		task.Status = status
	}
}

func (this *FakeBackend) genId() int64 {
	this.nextId++
	return this.nextId
}

func (this *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	this.mu.Lock()
	this.calls[r.URL.Path]++
	call := this.calls[r.URL.Path]
	hook := this.BeforeHandle
	this.mu.Unlock()

	if hook != nil {
		hook(r.URL.Path, call)
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if this.httpFail[r.URL.Path] {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if msg, ok := this.failPaths[r.URL.Path]; ok {
		writeError(w, msg)
		return
	}

	query := r.URL.Query()
	id, _ := strconv.ParseInt(query.Get("id"), 10, 64)
	taskId, _ := strconv.ParseInt(query.Get("taskId"), 10, 64)

	switch r.URL.Path {
	case "/db/getAllDatabases":
		writeOK(w, this.databases)
	case "/db/getDatabaseById":
		writeOK(w, this.findDatabase(id))
	case "/db/addDatabase":
		db := new(model.Database)
		if !decodeBody(w, r, db) {
			return
		}
		db.Id = this.genId()
		this.databases = append(this.databases, db)
		writeOK(w, true)
	case "/db/updateDatabase":
		db := new(model.Database)
		if !decodeBody(w, r, db) {
			return
		}
		for i, exists := range this.databases {
			if exists.Id == db.Id {
				this.databases[i] = db
				writeOK(w, true)
				return
			}
		}
		writeError(w, "数据库连接不存在")
	case "/db/deleteDatabase":
		for i, exists := range this.databases {
			if exists.Id == id {
				this.databases = append(this.databases[:i], this.databases[i+1:]...)
				writeOK(w, true)
				return
			}
		}
		writeError(w, "数据库连接不存在")
	case "/db/updateStatus":
		body := struct {
			Id     int64 `json:"id"`
			Status int   `json:"status"`
		}{}
		if !decodeBody(w, r, &body) {
			return
		}
		db := this.findDatabase(body.Id)
		if db == nil {
			writeError(w, "数据库连接不存在")
			return
		}
		db.Status = body.Status
		writeOK(w, true)
	case "/db/testConnection":
		db := new(model.Database)
		if !decodeBody(w, r, db) {
			return
		}
		writeOK(w, db.Host != "")
	case "/db/getAllTables":
		databaseId, _ := strconv.ParseInt(query.Get("databaseId"), 10, 64)
		writeOK(w, this.tables[databaseId])
	case "/db/getTableColumns":
		writeOK(w, []map[string]interface{}{
			{"columnName": "id", "columnType": "bigint"},
			{"columnName": "name", "columnType": "varchar(64)"},
		})
	case "/db/getAllSyncTasks":
		writeOK(w, this.tasks)
	case "/db/getSyncTaskById":
		task := this.findTask(id)
		if task == nil {
			writeError(w, "同步任务不存在")
			return
		}
		writeOK(w, task)
	case "/db/addSyncTask":
		task := new(model.SyncTask)
		if !decodeBody(w, r, task) {
			return
		}
		task.Id = this.genId()
		this.tasks = append(this.tasks, task)
		writeOK(w, true)
	case "/db/updateSyncTask":
		task := new(model.SyncTask)
		if !decodeBody(w, r, task) {
			return
		}
		exists := this.findTask(task.Id)
		if exists == nil {
			writeError(w, "同步任务不存在")
			return
		}
		if exists.IsRunning() {
			writeError(w, "任务正在运行，无法修改")
			return
		}
		*exists = *task
		writeOK(w, true)
	case "/db/deleteSyncTask":
		for i, task := range this.tasks {
			if task.Id == id {
				if task.IsRunning() {
					writeError(w, "任务正在运行，无法删除")
					return
				}
				this.tasks = append(this.tasks[:i], this.tasks[i+1:]...)
				writeOK(w, true)
				return
			}
		}
		writeError(w, "同步任务不存在")
	case "/db/startTask":
		this.setRunning(w, id, true)
	case "/db/stopTask":
		this.setRunning(w, id, false)
	case "/db/getTaskStatistics":
		this.writeStatistics(w, id)
	case "/exception/getByTaskId":
		writeOK(w, this.findExceptions(taskId, "", false))
	case "/exception/getByTaskIdAndTableName":
		writeOK(w, this.findExceptions(taskId, query.Get("tableName"), true))
	case "/exception/countByTaskId":
		writeOK(w, len(this.findExceptions(taskId, "", false)))
	case "/exception/countByTaskIdAndTableName":
		writeOK(w, len(this.findExceptions(taskId, query.Get("tableName"), true)))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (this *FakeBackend) setRunning(w http.ResponseWriter, id int64, running bool) {
	task := this.findTask(id)
	if task == nil {
		writeError(w, "同步任务不存在")
		return
	}

	if running {
		task.Status = model.TASK_STATUS_RUNNING
	} else {
		task.Status = model.TASK_STATUS_STOPPED
	}
	this.running[id] = &running
	writeOK(w, true)
}

func (this *FakeBackend) writeStatistics(w http.ResponseWriter, id int64) {
	task := this.findTask(id)
	if task == nil {
		writeError(w, "同步任务不存在")
		return
	}

	taskInfo := map[string]interface{}{
		"taskName":       task.TaskName,
		"status":         task.Status,
		"totalSyncCount": 0,
	}
	if running := this.running[id]; running != nil {
		taskInfo["isRunning"] = *running
	}

	tableStats := this.tableStats[id]
	if tableStats == nil {
		tableStats = []map[string]interface{}{}
	}

	writeOK(w, map[string]interface{}{
		"taskInfo":            taskInfo,
		"tableStats":          tableStats,
		"totalExceptionCount": len(this.findExceptions(id, "", false)),
	})
}

func (this *FakeBackend) findDatabase(id int64) *model.Database {
	for _, db := range this.databases {
		if db.Id == id {
			return db
		}
	}
	return nil
}

func (this *FakeBackend) findTask(id int64) *model.SyncTask {
	for _, task := range this.tasks {
		if task.Id == id {
			return task
		}
	}
	return nil
}

func (this *FakeBackend) findExceptions(taskId int64, tableName string, byTable bool) []*model.SyncException {
	exceptions := make([]*model.SyncException, 0)
	for _, exception := range this.exceptions {
		if exception.TaskId != taskId {
			continue
		}
		if byTable && exception.TableName != tableName {
			continue
		}
		exceptions = append(exceptions, exception)
	}
	return exceptions
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "请求参数格式不正确")
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, data interface{}) {
	writeResult(w, gclient.SUCCESS_CODE, "操作成功", data)
}

func writeError(w http.ResponseWriter, msg string) {
	writeResult(w, 500, msg, nil)
}

func writeResult(w http.ResponseWriter, code int, msg string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": msg,
		"data":    data,
	})
}
