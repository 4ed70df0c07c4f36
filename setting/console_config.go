package setting

import "time"

const (
	DefaultListPollInterval    = 30 // 任务列表刷新间隔(秒)
	DefaultMonitorPollInterval = 10 // 任务监控刷新间隔(秒)
	DefaultAssumeYes           = false
)

type ConsoleConfig struct {
	ListPollInterval    int  `mapstructure:"list_poll_interval" json:"list_poll_interval"`       // 任务列表刷新间隔(秒)
	MonitorPollInterval int  `mapstructure:"monitor_poll_interval" json:"monitor_poll_interval"` // 任务监控刷新间隔(秒)
	AssumeYes           bool `mapstructure:"assume_yes" json:"assume_yes"`                       // 启动/停止/删除 不再询问确认
}

func NewDefaultConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		ListPollInterval:    DefaultListPollInterval,
		MonitorPollInterval: DefaultMonitorPollInterval,
		AssumeYes:           DefaultAssumeYes,
	}
}

func (this *ConsoleConfig) GetListPollInterval() time.Duration {
	return secondsOrDefault(this.ListPollInterval, DefaultListPollInterval)
}

func (this *ConsoleConfig) GetMonitorPollInterval() time.Duration {
	return secondsOrDefault(this.MonitorPollInterval, DefaultMonitorPollInterval)
}

func secondsOrDefault(_seconds int, _default int) time.Duration {
	if _seconds <= 0 {
		_seconds = _default
	}

	return time.Duration(_seconds) * time.Second
}
