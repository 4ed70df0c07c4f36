package setting

import (
	"strings"
	"time"
)

const (
	DefaultApiBaseURL = "http://localhost:8087/yxq"
	DefaultApiTimeout = 30 // 请求超时时间, 单位: 秒
)

// 同步平台后端接口配置
type ApiConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url"` // 接口地址, 如: http://localhost:8087/yxq
	Timeout int    `mapstructure:"timeout" json:"timeout"`   // 请求超时(秒)
}

func NewDefaultApiConfig() *ApiConfig {
	return &ApiConfig{
		BaseURL: DefaultApiBaseURL,
		Timeout: DefaultApiTimeout,
	}
}

// 去掉结尾的 "/", 方便直接拼接接口路径
func (this *ApiConfig) GetBaseURL() string {
	baseURL := strings.TrimSpace(this.BaseURL)
	if baseURL == "" {
		baseURL = DefaultApiBaseURL
	}

	return strings.TrimRight(baseURL, "/")
}

func (this *ApiConfig) GetTimeout() time.Duration {
	if this.Timeout <= 0 {
		return DefaultApiTimeout * time.Second
	}

	return time.Duration(this.Timeout) * time.Second
}
