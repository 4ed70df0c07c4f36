package model

// 进度为该值表示没有固定的结束点, 一直在同步(增量同步)
const PROGRESS_ONGOING = -1

// 任务统计信息中的任务部分
type TaskInfo struct {
	IsRunning      *bool       `json:"isRunning"`      // 同步引擎中任务是否真的在运行, 没有返回时为 nil
	TotalSyncCount interface{} `json:"totalSyncCount"` // 已同步数据量, 数字或数字字符串
	TaskName       string      `json:"taskName"`
	Status         interface{} `json:"status"`
	SyncType       interface{} `json:"syncType"`
	TaskStartTime  JsonTime    `json:"taskStartTime"`
}

// 单个表的同步统计. 计数和进度字段后端可能返回数字也可能返回字符串, 使用前需要转化
type TableStat struct {
	TableName      string      `json:"tableName"`      // 表名
	StartTime      JsonTime    `json:"startTime"`      // 表同步开始时间
	InsertCount    interface{} `json:"insertCount"`    // 插入记录数
	UpdateCount    interface{} `json:"updateCount"`    // 更新记录数
	DeleteCount    interface{} `json:"deleteCount"`    // 删除记录数
	SyncCount      interface{} `json:"syncCount"`      // 已同步数据量
	ExceptionCount interface{} `json:"exceptionCount"` // 异常记录数
	Progress       interface{} `json:"progress"`       // 同步进度 [0,100], -1 表示持续进行中
	LastUpdateTime JsonTime    `json:"lastUpdateTime"` // 最近更新时间
}

// 任务监控统计信息, 每次获取都是完整的一份
type TaskStatistics struct {
	TaskInfo            TaskInfo     `json:"taskInfo"`
	TableStats          []*TableStat `json:"tableStats"`
	TotalExceptionCount interface{}  `json:"totalExceptionCount"`
}
