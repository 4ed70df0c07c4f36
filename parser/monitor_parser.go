package parser

import (
	"strings"
	"time"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/service/monitor"
	"github.com/juju/errors"
)

const ALL_STATUS = -1

// 任务监控命令参数
type MonitorParser struct {
	TaskId   int64
	Interval int  // 刷新间隔(秒), 小于等于0使用配置文件中的值
	Once     bool // 只获取一次, 不轮询
}

func (this *MonitorParser) Parse() error {
	if err := DetectTaskIdInput(this.TaskId); err != nil {
		return err
	}

	return nil
}

func (this *MonitorParser) GetInterval(_default time.Duration) time.Duration {
	if this.Interval <= 0 {
		return _default
	}

	return time.Duration(this.Interval) * time.Second
}

// 任务列表命令参数
type ListParser struct {
	Search   string // 任务名称, 不区分大小写
	Status   int    // -1 表示全部状态
	Watch    bool   // 持续刷新
	Interval int    // 刷新间隔(秒)
}

func (this *ListParser) Parse() error {
	this.Search = strings.TrimSpace(this.Search)

	if this.Status < ALL_STATUS {
		return errors.NotValidf("任务状态 %v, 只能是 -1(全部), 0(停止), 1(运行中), 2(异常). %v",
			this.Status, common.CurrLine())
	}

	return nil
}

func (this *ListParser) GetInterval(_default time.Duration) time.Duration {
	if this.Interval <= 0 {
		return _default
	}

	return time.Duration(this.Interval) * time.Second
}

func (this *ListParser) Filter() monitor.TaskFilter {
	filter := monitor.TaskFilter{Search: this.Search}
	if this.Status != ALL_STATUS {
		status := this.Status
		filter.Status = &status
	}

	return filter
}
