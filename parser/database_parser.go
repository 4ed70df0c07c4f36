package parser

import (
	"strings"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/juju/errors"
)

const DEFAULT_MYSQL_PORT = 3306

// 添加/修改数据库连接时用于接收命令行参数
type DatabaseParser struct {
	Id       int64
	Dsn      string // user:password@tcp(host:port)/dbName?param=value, 指定之后下面的连接字段不需要再指定
	Host     string
	Port     int64
	DbName   string
	Username string
	Password string
	Param    string
	Disabled bool

	Database *model.Database // 解析之后的数据库连接
}

func (this *DatabaseParser) Parse() error {
	if err := this.ParseDsn(); err != nil {
		return err
	}

	return this.ParseConnection()
}

// 解析 dsn, 命令行中单独指定的字段优先
func (this *DatabaseParser) ParseDsn() error {
	this.Database = &model.Database{Id: this.Id, Status: model.DATABASE_STATUS_ENABLED}
	if strings.TrimSpace(this.Dsn) != "" {
		database, err := model.NewDatabaseFromDSN(this.Dsn)
		if err != nil {
			return errors.NotValidf("dsn[%v]. %v. %v", this.Dsn, err, common.CurrLine())
		}
		database.Id = this.Id
		this.Database = database
	}

	if host := strings.TrimSpace(this.Host); host != "" {
		this.Database.Host = host
	}
	if this.Port > 0 {
		this.Database.Port = this.Port
	}
	if dbName := strings.TrimSpace(this.DbName); dbName != "" {
		this.Database.DbName = dbName
	}
	if username := strings.TrimSpace(this.Username); username != "" {
		this.Database.Username = username
	}
	if this.Password != "" {
		this.Database.Password = this.Password
	}
	if param := strings.TrimSpace(this.Param); param != "" {
		this.Database.Param = param
	}
	if this.Disabled {
		this.Database.Status = model.DATABASE_STATUS_DISABLED
	}

	return nil
}

func (this *DatabaseParser) ParseConnection() error {
	if this.Database.Host == "" {
		return errors.NotValidf("主机地址, 不能为空. %v", common.CurrLine())
	}
	if this.Database.Port <= 0 {
		this.Database.Port = DEFAULT_MYSQL_PORT
	}
	if this.Database.Port > 65535 {
		return errors.NotValidf("端口 %v. %v", this.Database.Port, common.CurrLine())
	}
	if this.Database.DbName == "" {
		return errors.NotValidf("数据库名称, 不能为空. %v", common.CurrLine())
	}
	if this.Database.Username == "" {
		return errors.NotValidf("用户名, 不能为空. %v", common.CurrLine())
	}

	return nil
}

/* 修改数据库连接时, 没有指定的字段使用原来的值. 密码不会返回, 没有指定则不修改
Params:
    _database: 原来的数据库连接
*/
func (this *DatabaseParser) FillFromDatabase(_database *model.Database) {
	this.Id = _database.Id
	if strings.TrimSpace(this.Dsn) != "" {
		return
	}
	if strings.TrimSpace(this.Host) == "" {
		this.Host = _database.Host
	}
	if this.Port <= 0 {
		this.Port = _database.Port
	}
	if strings.TrimSpace(this.DbName) == "" {
		this.DbName = _database.DbName
	}
	if strings.TrimSpace(this.Username) == "" {
		this.Username = _database.Username
	}
	if strings.TrimSpace(this.Param) == "" {
		this.Param = _database.Param
	}
	if !_database.IsEnabled() {
		this.Disabled = true
	}
}
