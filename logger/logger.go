package logger

import (
	"os"

	"github.com/daiguadaidai/go-d-console/setting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 使用
// logger.M.Info("打印日志 Info")
// logger.M.Debugf("任务状态不一致: %v", taskId)
// 没有调用 InitLogger 之前 M 不输出任何日志
var M = zap.NewNop().Sugar()

func InitLogger(logConfig *setting.LogConfig) {
	writeSyncers := getLoggerSyncers(logConfig)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 设置日志级别
	atomicLevel := zap.NewAtomicLevel()
	atomicLevel.SetLevel(logConfig.GetLogLevelZap())

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writeSyncers...),
		atomicLevel,
	)

	M = zap.New(core, zap.AddCaller()).Sugar()
}

// 退出前刷新缓存的日志
func Sync() {
	_ = M.Sync()
}

func getLoggerSyncers(logConfig *setting.LogConfig) []zapcore.WriteSyncer {
	syncers := make([]zapcore.WriteSyncer, 0, 2)

	// 添加文件输出日志
	if logConfig.HasFile() {
		fileSyncer := &lumberjack.Logger{
			Filename:   logConfig.LogFilename,   // 日志文件路径
			MaxSize:    logConfig.LogMaxSize,    // 每个日志文件保存的最大尺寸 单位：M
			MaxBackups: logConfig.LogMaxBackups, // 日志文件最多保存多少个备份
			MaxAge:     logConfig.LogMaxAge,     // 文件最多保存多少天
			Compress:   logConfig.LogCompress,   // 是否压缩
		}
		syncers = append(syncers, zapcore.AddSync(fileSyncer))
	}

	// 没有指定文件 或 指定了控制台输出. 控制台使用 stderr, stdout 留给表格输出
	if logConfig.LogConsole || !logConfig.HasFile() {
		syncers = append(syncers, zapcore.Lock(os.Stderr))
	}

	return syncers
}
