package setting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadSetting_Default(t *testing.T) {
	s, err := LoadSetting("")
	require.NoError(t, err)

	require.Equal(t, DefaultApiBaseURL, s.Api.GetBaseURL())
	require.Equal(t, 30*time.Second, s.Api.GetTimeout())
	require.Equal(t, 30*time.Second, s.Console.GetListPollInterval())
	require.Equal(t, 10*time.Second, s.Console.GetMonitorPollInterval())
	require.Equal(t, WARN_LEVEL_STR, s.Log.GetLogLevel())
}

func TestLoadSetting_File(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "console.yaml")
	content := `
api:
  base_url: "http://10.0.0.1:8087/yxq/"
  timeout: 5
console:
  monitor_poll_interval: 3
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	s, err := LoadSetting(configFile)
	require.NoError(t, err)

	require.Equal(t, "http://10.0.0.1:8087/yxq", s.Api.GetBaseURL())
	require.Equal(t, 5*time.Second, s.Api.GetTimeout())
	require.Equal(t, 3*time.Second, s.Console.GetMonitorPollInterval())
	require.Equal(t, 30*time.Second, s.Console.GetListPollInterval())
	require.Equal(t, DEBUG_LEVEL_STR, s.Log.GetLogLevel())
}

func TestLoadSetting_Env(t *testing.T) {
	t.Setenv("GDC_API_BASE_URL", "https://sync.example.com/yxq")

	s, err := LoadSetting("")
	require.NoError(t, err)
	require.Equal(t, "https://sync.example.com/yxq", s.Api.GetBaseURL())
}

func TestLoadSetting_BadBaseURL(t *testing.T) {
	t.Setenv("GDC_API_BASE_URL", "localhost:8087")

	_, err := LoadSetting("")
	require.Error(t, err)
}

func TestLogConfig_GetLogLevel(t *testing.T) {
	logConfig := &LogConfig{LogLevel: "not-a-level"}
	require.Equal(t, INFO_LEVEL_STR, logConfig.GetLogLevel())

	logConfig.LogLevel = " ERROR "
	require.Equal(t, ERROR_LEVEL_STR, logConfig.GetLogLevel())
}
