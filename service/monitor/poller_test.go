package monitor

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestPoller_StartStop(t *testing.T) {
	before := ActiveTimers()
	calls := atomic.NewInt64(0)

	poller := NewPoller("test", 10*time.Millisecond)
	require.False(t, poller.IsActive())

	require.NoError(t, poller.Start(func() { calls.Inc() }))
	require.True(t, poller.IsActive())
	require.Equal(t, before+1, ActiveTimers())

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	poller.Stop()
	require.False(t, poller.IsActive())
	require.Equal(t, before, ActiveTimers())

	// 停止之后不再触发
	ticks := poller.Ticks()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, ticks, poller.Ticks())

	// 重复停止不会影响计数
	poller.Stop()
	require.Equal(t, before, ActiveTimers())
}

func TestPoller_StartTwice(t *testing.T) {
	poller := NewPoller("test", time.Hour)
	require.NoError(t, poller.Start(func() {}))
	defer poller.Stop()

	err := poller.Start(func() {})
	require.Error(t, err)
	require.True(t, errors.IsAlreadyExists(err))
}

func TestPoller_Restart(t *testing.T) {
	before := ActiveTimers()
	poller := NewPoller("test", time.Hour)

	require.NoError(t, poller.Start(func() {}))
	poller.Stop()
	require.NoError(t, poller.Start(func() {}))
	require.Equal(t, before+1, ActiveTimers())
	poller.Stop()
	require.Equal(t, before, ActiveTimers())
}

func TestPoller_InvalidInterval(t *testing.T) {
	poller := NewPoller("test", 0)
	err := poller.Start(func() {})
	require.True(t, errors.IsNotValid(err))
	require.False(t, poller.IsActive())
}

// 上一次执行没有结束时, 下一次定时照常触发
func TestPoller_Overlap(t *testing.T) {
	release := make(chan struct{})
	running := atomic.NewInt64(0)

	poller := NewPoller("test", 5*time.Millisecond)
	require.NoError(t, poller.Start(func() {
		running.Inc()
		<-release
	}))

	require.Eventually(t, func() bool { return running.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	poller.Stop()
	close(release)
}
