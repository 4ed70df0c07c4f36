package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/daiguadaidai/go-d-console/dao"
	"github.com/daiguadaidai/go-d-console/gclient"
	"github.com/daiguadaidai/go-d-console/service/monitor"
	"github.com/daiguadaidai/go-d-console/setting"
)

const ERROR_PREFIX = "[错误]"

// 控制台, 所有命令的入口
type Console struct {
	Setting *setting.Setting

	Client       *gclient.Client
	DatabaseDao  *dao.DatabaseDao
	TaskDao      *dao.SyncTaskDao
	ExceptionDao *dao.SyncExceptionDao

	Printer   *Printer
	Confirmer monitor.Confirmer
	Reader    *LineReader
}

/* 创建控制台
Params:
    _setting: 配置信息
    _in: 交互命令和确认提示的输入
    _out: 正常输出
    _errOut: 接口失败时的错误提示输出
*/
func NewConsole(_setting *setting.Setting, _in io.Reader, _out io.Writer, _errOut io.Writer) *Console {
	notifier := gclient.NotifierFunc(func(msg string) {
		fmt.Fprintf(_errOut, "%v %v\n", ERROR_PREFIX, msg)
	})
	client := gclient.NewClient(&_setting.Api, notifier)
	reader := NewLineReader(_in)

	var confirmer monitor.Confirmer = &StdinConfirmer{Reader: reader, Out: _out}
	if _setting.Console.AssumeYes {
		confirmer = monitor.AssumeYes
	}

	return &Console{
		Setting:      _setting,
		Client:       client,
		DatabaseDao:  &dao.DatabaseDao{Client: client},
		TaskDao:      &dao.SyncTaskDao{Client: client},
		ExceptionDao: &dao.SyncExceptionDao{Client: client},
		Printer:      NewPrinter(_out),
		Confirmer:    confirmer,
		Reader:       reader,
	}
}

func (this *Console) newDirectory() *monitor.DatabaseDirectory {
	return monitor.NewDatabaseDirectory(this.DatabaseDao)
}

func (this *Console) newGate() *monitor.ActionGate {
	return monitor.NewActionGate(this.TaskDao, this.Confirmer)
}

func (this *Console) newDrillDown() *monitor.ExceptionDrillDown {
	return monitor.NewExceptionDrillDown(this.ExceptionDao)
}

// 交互模式下读取一条命令, 返回命令和参数
func (this *Console) nextCommand(ctx context.Context) (string, []string, error) {
	for {
		line, err := this.Reader.Next(ctx)
		if err != nil {
			return "", nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		return fields[0], fields[1:], nil
	}
}
