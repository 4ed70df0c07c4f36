package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daiguadaidai/go-d-console/setting"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "console.log")
	logConfig := setting.NewDefaultLogConfig()
	logConfig.LogFilename = logFile
	logConfig.LogLevel = setting.INFO_LEVEL_STR

	InitLogger(logConfig)
	M.Infof("任务[%v]监控启动", 1)
	M.Debugf("debug 级别不应该输出")
	Sync()

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(raw), "任务[1]监控启动")
	require.NotContains(t, string(raw), "debug 级别不应该输出")
}

func TestGetLoggerSyncers(t *testing.T) {
	logConfig := setting.NewDefaultLogConfig()
	require.Len(t, getLoggerSyncers(logConfig), 1)

	logConfig.LogFilename = filepath.Join(t.TempDir(), "a.log")
	require.Len(t, getLoggerSyncers(logConfig), 1)

	logConfig.LogConsole = true
	require.Len(t, getLoggerSyncers(logConfig), 2)
}
