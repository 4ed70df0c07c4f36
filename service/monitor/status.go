package monitor

import "github.com/daiguadaidai/go-d-console/model"

type TaskState int

const (
	TASK_STATE_UNKNOWN TaskState = iota
	TASK_STATE_STOPPED
	TASK_STATE_RUNNING
	TASK_STATE_ERROR
)

// 任务状态的展示信息
type StatusView struct {
	State    TaskState
	Label    string
	StyleTag string // 不认识的状态没有样式
}

/* 将任务状态码转化成展示状态, 0/1/2 之外的状态码都是未知
Params:
    _code: 任务状态码
*/
func ClassifyStatus(_code int) StatusView {
	switch _code {
	case model.TASK_STATUS_STOPPED:
		return StatusView{State: TASK_STATE_STOPPED, Label: "已停止", StyleTag: "task-status-stopped"}
	case model.TASK_STATUS_RUNNING:
		return StatusView{State: TASK_STATE_RUNNING, Label: "运行中", StyleTag: "task-status-running"}
	case model.TASK_STATUS_ERROR:
		return StatusView{State: TASK_STATE_ERROR, Label: "异常", StyleTag: "task-status-error"}
	}

	return StatusView{State: TASK_STATE_UNKNOWN, Label: "未知", StyleTag: ""}
}
