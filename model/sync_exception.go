package model

// 同步异常记录, 控制台只读
type SyncException struct {
	Id           int64    `json:"id"`
	TaskId       int64    `json:"taskId"`
	TableName    string   `json:"tableName"`
	ErrorMessage string   `json:"errorMessage"`
	ErrorTime    JsonTime `json:"errorTime"`
	HandleTime   JsonTime `json:"handleTime"`
	HandleRemark string   `json:"handleRemark"`
}
