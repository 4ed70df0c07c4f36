package model

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
)

const (
	DATABASE_STATUS_DISABLED = 0 // 停用
	DATABASE_STATUS_ENABLED  = 1 // 启用
)

// 数据库连接信息, 对应后端 y_database
type Database struct {
	Id         int64    `json:"id,omitempty"`       // 主键ID
	Host       string   `json:"host"`               // 主机地址
	Port       int64    `json:"port"`               // 端口
	DbName     string   `json:"dbName"`             // 数据库名称
	Username   string   `json:"username"`           // 用户名
	Password   string   `json:"password,omitempty"` // 密码, 只在添加/修改/测试时发送, 不展示
	Param      string   `json:"param"`              // 额外连接参数, 如: useSSL=false&serverTimezone=Asia/Shanghai
	Status     int      `json:"status"`             // 状态：0-停用，1-启用
	CreateTime JsonTime `json:"createTime"`         // 创建时间
	UpdateTime JsonTime `json:"updateTime"`         // 更新时间
}

func (this *Database) GetHostPortStr() string {
	return fmt.Sprintf("%v:%v", this.Host, this.Port)
}

// 展示名称 host:port/dbName
func (this *Database) GetDisplayName() string {
	return fmt.Sprintf("%v/%v", this.GetHostPortStr(), this.DbName)
}

func (this *Database) IsEnabled() bool {
	return this.Status == DATABASE_STATUS_ENABLED
}

func (this *Database) StatusLabel() string {
	if this.IsEnabled() {
		return "启用"
	}

	return "停用"
}

// 获取模糊数据源, 密码使用 *** 代替
func (this *Database) GetFuzzyDataSource() string {
	cfg := mysql.NewConfig()
	cfg.User = this.Username
	cfg.Passwd = "***"
	cfg.Net = "tcp"
	cfg.Addr = this.GetHostPortStr()
	cfg.DBName = this.DbName

	if params, err := url.ParseQuery(strings.TrimSpace(this.Param)); err == nil && len(params) > 0 {
		cfg.Params = make(map[string]string, len(params))
		for key := range params {
			cfg.Params[key] = params.Get(key)
		}
	}

	return cfg.FormatDSN()
}

// 需要测试连接时只发送连接相关字段
func (this *Database) ToTestPayload() *Database {
	return &Database{
		Id:       this.Id,
		Host:     this.Host,
		Port:     this.Port,
		DbName:   this.DbName,
		Username: this.Username,
		Password: this.Password,
		Param:    this.Param,
	}
}

/* 通过 mysql dsn 生成数据库连接信息
Params:
    _dsn: user:password@tcp(host:port)/dbName?param1=value1
*/
func NewDatabaseFromDSN(_dsn string) (*Database, error) {
	cfg, err := mysql.ParseDSN(strings.TrimSpace(_dsn))
	if err != nil {
		return nil, errors.Annotatef(err, "dsn 格式不正确")
	}

	host, portStr, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, errors.Annotatef(err, "dsn 地址格式不正确: %v", cfg.Addr)
	}
	port, err := strconv.ParseInt(portStr, 10, 64)
	if err != nil {
		return nil, errors.Annotatef(err, "dsn 端口格式不正确: %v", portStr)
	}

	params := url.Values{}
	for key, value := range cfg.Params {
		params.Set(key, value)
	}

	return &Database{
		Host:     host,
		Port:     port,
		DbName:   cfg.DBName,
		Username: cfg.User,
		Password: cfg.Passwd,
		Param:    params.Encode(),
		Status:   DATABASE_STATUS_ENABLED,
	}, nil
}
