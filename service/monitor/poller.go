package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/daiguadaidai/go-d-console/logger"
	"github.com/juju/errors"
	"go.uber.org/atomic"
)

const (
	LIST_POLL_INTERVAL    = 30 * time.Second
	MONITOR_POLL_INTERVAL = 10 * time.Second
)

// 当前所有轮询器中正在运行的定时器数量
var activeTimers = atomic.NewInt64(0)

func ActiveTimers() int64 {
	return activeTimers.Load()
}

/* 视图的定时轮询器.
Idle: 没有定时器. Active: 定时器按固定间隔触发.
每次触发都在自己的 goroutine 中执行, 不等待上一次执行完成.
*/
type Poller struct {
	Name     string
	Interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	active *atomic.Bool
	ticks  *atomic.Int64
}

func NewPoller(_name string, _interval time.Duration) *Poller {
	return &Poller{
		Name:     _name,
		Interval: _interval,
		active:   atomic.NewBool(false),
		ticks:    atomic.NewInt64(0),
	}
}

/* 启动定时器, 已经启动的轮询器不能再次启动
Params:
    _fn: 每次定时触发执行的方法
*/
func (this *Poller) Start(_fn func()) error {
	if this.Interval <= 0 {
		return errors.NotValidf("轮询间隔 %v", this.Interval)
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if this.cancel != nil {
		return errors.AlreadyExistsf("轮询器[%v]定时器", this.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	this.cancel = cancel
	this.done = make(chan struct{})
	this.active.Store(true)
	activeTimers.Inc()

	go this.loop(ctx, _fn, this.done)
	logger.M.Debugf("轮询器[%v]启动, 间隔: %v", this.Name, this.Interval)

	return nil
}

func (this *Poller) loop(_ctx context.Context, _fn func(), _done chan struct{}) {
	defer close(_done)

	ticker := time.NewTicker(this.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-_ctx.Done():
			return
		case <-ticker.C:
			this.ticks.Inc()
			go _fn()
		}
	}
}

// 停止定时器. 可以多次调用, 只有第一次生效. 已经在执行的方法不会被取消
func (this *Poller) Stop() {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.cancel == nil {
		return
	}

	this.cancel()
	<-this.done
	this.cancel = nil
	this.done = nil
	this.active.Store(false)
	activeTimers.Dec()

	logger.M.Debugf("轮询器[%v]停止, 共触发 %v 次", this.Name, this.ticks.Load())
}

func (this *Poller) IsActive() bool {
	return this.active.Load()
}

// 定时器触发次数
func (this *Poller) Ticks() int64 {
	return this.ticks.Load()
}
