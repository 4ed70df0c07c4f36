package gclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/setting"
	"github.com/google/uuid"
	"github.com/juju/errors"
)

const (
	SUCCESS_CODE = 200 // 后端业务成功码

	DEFAULT_BUSINESS_ERR_MSG = "操作失败"
	DEFAULT_REQUEST_ERR_MSG  = "请求失败"
)

// 后端统一返回的结构 {code, message, data}
type Result struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// 后端返回了非成功的业务码
type BusinessError struct {
	Path    string
	Code    int
	Message string
}

func (this *BusinessError) Error() string {
	return fmt.Sprintf("%v: %v(code: %v)", this.Path, this.Message, this.Code)
}

func IsBusinessError(err error) bool {
	_, ok := errors.Cause(err).(*BusinessError)
	return ok
}

// 用于把失败信息展示给用户
type Notifier interface {
	NotifyError(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) NotifyError(msg string) {
	f(msg)
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(string) {}

// 同步平台接口客户端. 请求成功返回 data, 失败时先通知用户再返回错误
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Notifier Notifier
}

func NewClient(apiConfig *setting.ApiConfig, notifier Notifier) *Client {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &Client{
		BaseURL:  apiConfig.GetBaseURL(),
		HTTP:     &http.Client{Timeout: apiConfig.GetTimeout()},
		Notifier: notifier,
	}
}

/* GET 请求
Params:
    _path: 接口路径, 如: /db/getAllDatabases
    _params: url 参数
    _out: 接收 data 的指针, 为 nil 不解析
*/
func (this *Client) Get(ctx context.Context, _path string, _params url.Values, _out interface{}) error {
	return this.do(ctx, http.MethodGet, _path, _params, nil, _out)
}

/* POST 请求, _body 不为空时以 json 发送
Params:
    _path: 接口路径
    _params: url 参数
    _body: 请求体
    _out: 接收 data 的指针, 为 nil 不解析
*/
func (this *Client) Post(ctx context.Context, _path string, _params url.Values, _body interface{}, _out interface{}) error {
	return this.do(ctx, http.MethodPost, _path, _params, _body, _out)
}

func (this *Client) do(ctx context.Context, _method string, _path string, _params url.Values,
	_body interface{}, _out interface{}) error {

	reqURL := strings.TrimRight(this.BaseURL, "/") + _path
	if len(_params) > 0 {
		reqURL += "?" + _params.Encode()
	}

	var reader io.Reader
	if _body != nil {
		raw, err := json.Marshal(_body)
		if err != nil {
			return errors.Annotatef(err, "请求体转化json失败. %v %v", _path, common.CurrLine())
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, _method, reqURL, reader)
	if err != nil {
		return errors.Annotatef(err, "创建请求失败. %v %v", _path, common.CurrLine())
	}
	requestId := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestId)

	logger.M.Debugf("请求接口 %v %v, request id: %v", _method, reqURL, requestId)

	resp, err := this.HTTP.Do(req)
	if err != nil {
		this.Notifier.NotifyError(DEFAULT_REQUEST_ERR_MSG + ": " + err.Error())
		return errors.Annotatef(err, "请求接口失败. %v %v", _method, _path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		this.Notifier.NotifyError(DEFAULT_REQUEST_ERR_MSG + ": " + err.Error())
		return errors.Annotatef(err, "读取接口返回失败. %v %v", _method, _path)
	}

	if resp.StatusCode != http.StatusOK {
		this.Notifier.NotifyError(fmt.Sprintf("%v: http status %v", DEFAULT_REQUEST_ERR_MSG, resp.StatusCode))
		return errors.Errorf("接口返回 http status %v. %v %v: %s", resp.StatusCode, _method, _path, raw)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		this.Notifier.NotifyError(DEFAULT_REQUEST_ERR_MSG + ": 返回格式不正确")
		return errors.Annotatef(err, "解析接口返回失败. %v %v", _method, _path)
	}

	if result.Code != SUCCESS_CODE {
		msg := result.Message
		if strings.TrimSpace(msg) == "" {
			msg = DEFAULT_BUSINESS_ERR_MSG
		}
		this.Notifier.NotifyError(msg)
		return &BusinessError{Path: _path, Code: result.Code, Message: msg}
	}

	if _out == nil || len(result.Data) == 0 || string(result.Data) == "null" {
		return nil
	}

	if err := common.UnmarshalUseNumber(result.Data, _out); err != nil {
		return errors.Annotatef(err, "解析接口返回data失败. %v %v", _method, _path)
	}

	return nil
}
