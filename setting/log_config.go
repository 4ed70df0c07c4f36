package setting

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultLogFilename   = ""
	DefaultLogMaxSize    = 128
	DefaultLogMaxBackups = 10
	DefaultLogMaxAge     = 7
	DefaultLogCompress   = false
	DefaultLogConsole    = false
	DefaultLogLevel      = WARN_LEVEL_STR
)

const (
	DEBUG_LEVEL_STR  = "debug"
	INFO_LEVEL_STR   = "info"
	WARN_LEVEL_STR   = "warn"
	ERROR_LEVEL_STR  = "error"
	DPANIC_LEVEL_STR = "dpanic"
	PANIC_LEVEL_STR  = "panic"
	FATAL_LEVEL_STR  = "fatal"
)

var logLevelStrToIntMap = map[string]zapcore.Level{
	DEBUG_LEVEL_STR:  zap.DebugLevel,
	INFO_LEVEL_STR:   zap.InfoLevel,
	WARN_LEVEL_STR:   zap.WarnLevel,
	ERROR_LEVEL_STR:  zap.ErrorLevel,
	DPANIC_LEVEL_STR: zap.DPanicLevel,
	PANIC_LEVEL_STR:  zap.PanicLevel,
	FATAL_LEVEL_STR:  zap.FatalLevel,
}

// 控制台日志配置. 没有指定文件时日志输出到 stderr, 避免和表格输出混在一起
type LogConfig struct {
	LogFilename   string `mapstructure:"filename" json:"log_filename"`       // 日志文件
	LogLevel      string `mapstructure:"level" json:"log_level"`             // 日志级别
	LogMaxSize    int    `mapstructure:"max_size" json:"log_max_size"`       // 文件最大大小(单位: M)
	LogMaxBackups int    `mapstructure:"max_backups" json:"log_max_backups"` // 日志文件最多保存多少个备份
	LogMaxAge     int    `mapstructure:"max_age" json:"log_max_age"`         // 文件最多保存多少天
	LogCompress   bool   `mapstructure:"compress" json:"log_compress"`       // 是否压缩
	LogConsole    bool   `mapstructure:"console" json:"log_console"`         // 指定了文件时是否还打印到控制台
}

func NewDefaultLogConfig() *LogConfig {
	return &LogConfig{
		LogFilename:   DefaultLogFilename,
		LogLevel:      DefaultLogLevel,
		LogMaxSize:    DefaultLogMaxSize,
		LogMaxBackups: DefaultLogMaxBackups,
		LogMaxAge:     DefaultLogMaxAge,
		LogCompress:   DefaultLogCompress,
		LogConsole:    DefaultLogConsole,
	}
}

func (this *LogConfig) GetLogLevel() string {
	level := strings.ToLower(strings.TrimSpace(this.LogLevel))
	if _, ok := logLevelStrToIntMap[level]; !ok {
		return INFO_LEVEL_STR
	}

	return level
}

func (this *LogConfig) GetLogLevelZap() zapcore.Level {
	return logLevelStrToIntMap[this.GetLogLevel()]
}

func (this *LogConfig) HasFile() bool {
	return strings.TrimSpace(this.LogFilename) != ""
}
