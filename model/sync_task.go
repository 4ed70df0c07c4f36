package model

const (
	TASK_STATUS_STOPPED = 0 // 停止
	TASK_STATUS_RUNNING = 1 // 运行中
	TASK_STATUS_ERROR   = 2 // 异常
)

const (
	SYNC_TYPE_FULL        = 0 // 全量同步
	SYNC_TYPE_INCREMENTAL = 1 // 增量同步
)

// 默认启动选项, 从头开始同步
const DEFAULT_STARTUP_OPTIONS = `{"type":"initial"}`

// 同步任务, 对应后端 y_task
type SyncTask struct {
	Id             int64    `json:"id,omitempty"`             // 主键ID
	TaskName       string   `json:"taskName"`                 // 任务名称
	SourceDbId     int64    `json:"sourceDbId"`               // 源数据库ID
	TargetDbId     int64    `json:"targetDbId"`               // 目标数据库ID
	SyncType       int      `json:"syncType"`                 // 同步类型：0-全量同步，1-增量同步
	Tables         string   `json:"tables"`                   // 同步表, json 数组
	StartupOptions string   `json:"startupOptions,omitempty"` // 启动选项，JSON格式
	Status         int      `json:"status"`                   // 任务状态：0-停止，1-运行中，2-异常
	TaskStartTime  JsonTime `json:"taskStartTime"`            // 任务开始时间
	CreateTime     JsonTime `json:"createTime"`               // 创建时间
	UpdateTime     JsonTime `json:"updateTime"`               // 更新时间
}

func (this *SyncTask) IsRunning() bool {
	return this.Status == TASK_STATUS_RUNNING
}

func (this *SyncTask) SyncTypeLabel() string {
	return SyncTypeLabel(this.SyncType)
}

// 解析出错时返回空列表, 由调用者决定是否记录日志
func (this *SyncTask) GetTableMaps() ([]*TableMap, error) {
	return ParseTableMaps(this.Tables)
}

// 复制一份, 对账时修改状态不会影响原始数据
func (this *SyncTask) Clone() *SyncTask {
	task := *this
	return &task
}

func SyncTypeLabel(_syncType int) string {
	if _syncType == SYNC_TYPE_FULL {
		return "全量同步"
	}

	return "增量同步"
}
