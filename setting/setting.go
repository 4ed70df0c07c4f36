package setting

import (
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	ENV_PREFIX = "GDC" // 环境变量前缀, 如: GDC_API_BASE_URL
)

type Setting struct {
	Api     ApiConfig     `mapstructure:"api" json:"api"`
	Console ConsoleConfig `mapstructure:"console" json:"console"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
}

func NewDefaultSetting() *Setting {
	return &Setting{
		Api:     *NewDefaultApiConfig(),
		Console: *NewDefaultConsoleConfig(),
		Log:     *NewDefaultLogConfig(),
	}
}

/* 加载配置. 优先级: 环境变量 > 配置文件 > 默认值
Params:
    _configFile: 配置文件路径(yaml), 为空则只使用默认值和环境变量
*/
func LoadSetting(_configFile string) (*Setting, error) {
	v := viper.New()

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if strings.TrimSpace(_configFile) != "" {
		v.SetConfigFile(_configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "读取配置文件失败: %v", _configFile)
		}
	}

	s := new(Setting)
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Annotate(err, "解析配置失败")
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultApiBaseURL)
	v.SetDefault("api.timeout", DefaultApiTimeout)

	v.SetDefault("console.list_poll_interval", DefaultListPollInterval)
	v.SetDefault("console.monitor_poll_interval", DefaultMonitorPollInterval)
	v.SetDefault("console.assume_yes", DefaultAssumeYes)

	v.SetDefault("log.filename", DefaultLogFilename)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.max_size", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age", DefaultLogMaxAge)
	v.SetDefault("log.compress", DefaultLogCompress)
	v.SetDefault("log.console", DefaultLogConsole)
}

func (this *Setting) Validate() error {
	baseURL := this.Api.GetBaseURL()
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return errors.NotValidf("接口地址 %#v", this.Api.BaseURL)
	}
	if this.Console.ListPollInterval < 0 || this.Console.MonitorPollInterval < 0 {
		return errors.NotValidf("刷新间隔不能为负数, list: %v, monitor: %v",
			this.Console.ListPollInterval, this.Console.MonitorPollInterval)
	}

	return nil
}
