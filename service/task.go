package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/daiguadaidai/go-d-console/config"
	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/daiguadaidai/go-d-console/model"
	"github.com/daiguadaidai/go-d-console/parser"
	"github.com/daiguadaidai/go-d-console/service/monitor"
	"github.com/juju/errors"
)

const (
	LIST_COMMANDS_HELP    = "命令: start <id> | stop <id> | delete <id> | search [名称] | status <all|0|1|2> | refresh | quit"
	MONITOR_COMMANDS_HELP = "命令: start | stop | errors <表名> | refresh | quit"
)

// 交互命令执行失败只提示, 不退出
func (this *Console) printError(_err error) {
	logger.M.Debugf("%v: 命令执行失败. %v", common.CurrLine(), errors.ErrorStack(_err))
	this.Printer.Infof("%v %v", ERROR_PREFIX, _err)
}

func isQuitCommand(_cmd string) bool {
	switch _cmd {
	case "q", "quit", "exit":
		return true
	}

	return false
}

func parseTaskIdArg(_args []string) (int64, error) {
	if len(_args) == 0 {
		return 0, errors.NotValidf("缺少任务ID")
	}

	taskId, err := strconv.ParseInt(_args[0], 10, 64)
	if err != nil {
		return 0, errors.NotValidf("任务ID %#v", _args[0])
	}

	return taskId, nil
}

/* 任务列表. watch 模式下每隔一段时间刷新, 并可以输入命令操作任务
Params:
    _parser: 列表参数
*/
func (this *Console) ListTasks(ctx context.Context, _parser *parser.ListParser) error {
	if err := _parser.Parse(); err != nil {
		return err
	}

	interval := _parser.GetInterval(this.Setting.Console.GetListPollInterval())
	view := monitor.NewTaskListView(interval, this.TaskDao, this.newDirectory(), this.newGate())
	view.SetFilter(_parser.Filter())
	view.Renderer = this.Printer

	if !_parser.Watch {
		defer view.Unmount()
		return view.Mount(ctx)
	}

	defer view.Unmount()
	if err := view.Mount(ctx); err != nil {
		// 定时器已经启动, 下一次刷新会重试
		this.printError(err)
	}
	this.Printer.Infof(LIST_COMMANDS_HELP)

	filter := _parser.Filter()
	for {
		cmd, args, err := this.nextCommand(ctx)
		if err != nil {
			return nil
		}
		if isQuitCommand(cmd) {
			return nil
		}

		switch cmd {
		case "start", "stop", "delete":
			err = this.handleListAction(ctx, view, cmd, args)
		case "search":
			filter.Search = strings.Join(args, " ")
			view.SetFilter(filter)
		case "status":
			filter.Status, err = parseStatusArg(args)
			if err == nil {
				view.SetFilter(filter)
			}
		case "refresh":
			err = view.Fetch(ctx, true)
		default:
			this.Printer.Infof(LIST_COMMANDS_HELP)
		}

		if err != nil {
			this.printError(err)
		}
	}
}

func (this *Console) handleListAction(ctx context.Context, _view *monitor.TaskListView, _cmd string, _args []string) error {
	taskId, err := parseTaskIdArg(_args)
	if err != nil {
		return err
	}

	var performed bool
	switch _cmd {
	case "start":
		performed, err = _view.HandleStart(ctx, taskId)
	case "stop":
		performed, err = _view.HandleStop(ctx, taskId)
	case "delete":
		performed, err = _view.HandleDelete(ctx, taskId)
	}
	if err != nil {
		return err
	}
	if !performed {
		this.Printer.Infof("已取消")
	}

	return nil
}

// all 表示不过滤状态
func parseStatusArg(_args []string) (*int, error) {
	if len(_args) == 0 || _args[0] == "all" {
		return nil, nil
	}

	status, err := strconv.Atoi(_args[0])
	if err != nil || status < model.TASK_STATUS_STOPPED || status > model.TASK_STATUS_ERROR {
		return nil, errors.NotValidf("任务状态 %#v", _args[0])
	}

	return &status, nil
}

// 任务详情
func (this *Console) GetTask(ctx context.Context, _taskId int64) error {
	task, err := parser.DetectTask(ctx, this.TaskDao, _taskId)
	if err != nil {
		return err
	}

	configMap, err := config.NewTaskConfigMap(ctx, this.DatabaseDao, task)
	if err != nil {
		return err
	}

	exceptionCount, err := this.ExceptionDao.CountByTaskId(ctx, _taskId)
	if err != nil {
		return errors.Trace(err)
	}

	this.Printer.PrintTaskConfig(configMap, exceptionCount)

	return nil
}

func (this *Console) AddTask(ctx context.Context, _parser *parser.TaskParser) error {
	if err := _parser.Parse(); err != nil {
		return err
	}

	task, err := _parser.ToSyncTask()
	if err != nil {
		return err
	}

	// 源和目标数据库, 同步的表 都需要存在
	if _, err := config.NewCheckedTaskConfigMap(ctx, this.DatabaseDao, task); err != nil {
		return err
	}

	logger.M.Debugf("%v: 添加任务: %v", common.CurrLine(), common.ToJsonStr(task))
	if err := this.TaskDao.Add(ctx, task); err != nil {
		return errors.Trace(err)
	}
	this.Printer.Infof("添加任务成功: %v", task.TaskName)

	return nil
}

// 修改任务, 运行中的任务不能修改. 没有指定的字段使用原来的值
func (this *Console) UpdateTask(ctx context.Context, _parser *parser.TaskParser) error {
	exists, err := parser.DetectTask(ctx, this.TaskDao, _parser.TaskId)
	if err != nil {
		return err
	}
	if err := parser.DetectTaskNotRunning(exists); err != nil {
		return err
	}

	_parser.FillFromTask(exists)
	if err := _parser.Parse(); err != nil {
		return err
	}

	task, err := _parser.ToSyncTask()
	if err != nil {
		return err
	}
	if _, err := config.NewCheckedTaskConfigMap(ctx, this.DatabaseDao, task); err != nil {
		return err
	}

	logger.M.Debugf("%v: 修改任务: %v", common.CurrLine(), common.ToJsonStr(task))
	if err := this.TaskDao.Update(ctx, task); err != nil {
		return errors.Trace(err)
	}
	this.Printer.Infof("修改任务成功: %v", task.TaskName)

	return nil
}

func (this *Console) StartTask(ctx context.Context, _taskId int64) error {
	return this.taskAction(ctx, _taskId, monitor.ACTION_START)
}

func (this *Console) StopTask(ctx context.Context, _taskId int64) error {
	return this.taskAction(ctx, _taskId, monitor.ACTION_STOP)
}

func (this *Console) DeleteTask(ctx context.Context, _taskId int64) error {
	return this.taskAction(ctx, _taskId, monitor.ACTION_DELETE)
}

func (this *Console) taskAction(ctx context.Context, _taskId int64, _action string) error {
	task, err := parser.DetectTask(ctx, this.TaskDao, _taskId)
	if err != nil {
		return err
	}

	gate := this.newGate()
	var performed bool
	switch _action {
	case monitor.ACTION_START:
		performed, err = gate.Start(ctx, task)
	case monitor.ACTION_STOP:
		performed, err = gate.Stop(ctx, task)
	case monitor.ACTION_DELETE:
		performed, err = gate.Delete(ctx, task)
	default:
		return errors.NotSupportedf("任务操作 %v", _action)
	}
	if err != nil {
		return err
	}
	if !performed {
		this.Printer.Infof("已取消")
		return nil
	}

	if _action == monitor.ACTION_DELETE {
		this.Printer.Infof("删除任务成功: %v", task.TaskName)
		return nil
	}

	// 操作成功之后重新获取任务状态
	current, err := this.TaskDao.GetById(ctx, _taskId)
	if err != nil {
		return errors.Trace(err)
	}
	this.Printer.Infof("任务 [%v] 当前状态: %v", current.TaskName, monitor.ClassifyStatus(current.Status).Label)

	return nil
}

/* 任务监控. 前台获取失败时离开监控页面, 返回错误
Params:
    _parser: 监控参数
*/
func (this *Console) MonitorTask(ctx context.Context, _parser *parser.MonitorParser) error {
	if err := _parser.Parse(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interval := _parser.GetInterval(this.Setting.Console.GetMonitorPollInterval())
	view := monitor.NewTaskMonitorView(_parser.TaskId, interval, monitor.NewSnapshotFetcher(this.TaskDao),
		this.newDirectory(), this.newGate(), this.newDrillDown())
	view.Renderer = this.Printer

	leaveErr := make(chan error, 1)
	view.OnLeave = func(err error) {
		select {
		case leaveErr <- err:
		default:
		}
		cancel()
	}

	defer view.Unmount()
	if err := view.Mount(ctx); err != nil {
		return err
	}
	if _parser.Once {
		return nil
	}
	this.Printer.Infof(MONITOR_COMMANDS_HELP)

	for {
		cmd, args, err := this.nextCommand(ctx)
		if err != nil {
			select {
			case err := <-leaveErr:
				return err
			default:
				return nil
			}
		}
		if isQuitCommand(cmd) {
			return nil
		}

		switch cmd {
		case "start":
			err = this.handleMonitorAction(view.HandleStart(ctx))
		case "stop":
			err = this.handleMonitorAction(view.HandleStop(ctx))
		case "errors":
			err = this.viewErrors(ctx, view, args)
		case "refresh":
			err = view.Fetch(ctx, true)
		default:
			this.Printer.Infof(MONITOR_COMMANDS_HELP)
		}

		if err != nil && view.IsMounted() {
			this.printError(err)
		}
	}
}

func (this *Console) handleMonitorAction(_performed bool, _err error) error {
	if _err != nil {
		return _err
	}
	if !_performed {
		this.Printer.Infof("已取消")
	}

	return nil
}

func (this *Console) viewErrors(ctx context.Context, _view *monitor.TaskMonitorView, _args []string) error {
	if len(_args) == 0 {
		return errors.NotValidf("缺少表名")
	}

	overlay, err := _view.ViewErrors(ctx, _args[0])
	if err != nil {
		return err
	}
	if overlay == nil {
		this.Printer.Infof("表 [%v] 没有异常记录", _args[0])
		return nil
	}
	this.Printer.PrintExceptionOverlay(overlay)

	return nil
}

/* 查看任务的异常记录
Params:
    _taskId: 任务ID
    _tableName: 表名, 为空查看整个任务的异常记录
*/
func (this *Console) TaskErrors(ctx context.Context, _taskId int64, _tableName string) error {
	if err := parser.DetectTaskIdInput(_taskId); err != nil {
		return err
	}

	drillDown := this.newDrillDown()
	if _tableName == "" {
		records, err := drillDown.LoadTaskErrors(ctx, _taskId)
		if err != nil {
			return err
		}
		this.Printer.PrintExceptions(records)
		return nil
	}

	count, err := this.ExceptionDao.CountByTaskIdAndTableName(ctx, _taskId, _tableName)
	if err != nil {
		return errors.Trace(err)
	}

	row := &monitor.TableRow{TableName: _tableName, ExceptionCount: count}
	overlay, err := drillDown.LoadErrors(ctx, _taskId, row)
	if err != nil {
		return err
	}
	if overlay == nil {
		this.Printer.Infof("表 [%v] 没有异常记录", _tableName)
		return nil
	}
	this.Printer.PrintExceptionOverlay(overlay)

	return nil
}

// 任务状态码对应的显示, 用于命令帮助
func TaskStatusHelp() string {
	codes := []int{model.TASK_STATUS_STOPPED, model.TASK_STATUS_RUNNING, model.TASK_STATUS_ERROR}
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%v(%v)", code, monitor.ClassifyStatus(code).Label))
	}

	return strings.Join(parts, ", ")
}
