package stream

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSubscribeDeliversCurrentValueFirst(t *testing.T) {
	s := NewState(10)

	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case v := <-ch:
		assert.Equal(t, 10, v)
	case <-time.After(time.Second):
		t.Fatal("订阅后没有收到当前值")
	}
}

func TestStateSetNotifiesSubscribers(t *testing.T) {
	s := NewState("a")
	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch // 当前值

	s.Set("b")

	select {
	case v := <-ch:
		assert.Equal(t, "b", v)
	case <-time.After(time.Second):
		t.Fatal("没有收到更新")
	}
	assert.Equal(t, "b", s.Get())
}

// 消费慢时只保留最新值，旧值被覆盖
func TestStateCoalescesToLatest(t *testing.T) {
	s := NewState(0)
	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch

	s.Set(1)
	s.Set(2)
	s.Set(3)

	v := <-ch
	assert.Equal(t, 3, v)
}

func TestStateCancelStopsDelivery(t *testing.T) {
	s := NewState(0)
	ch, cancel := s.Subscribe()
	<-ch
	cancel()
	cancel() // 重复取消是安全的

	s.Set(1)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestBroadcasterCoalescesSignals(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Notify()
	b.Notify()
	b.Notify()

	<-ch
	select {
	case <-ch:
		t.Fatal("合并后的信号不应超过一次")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var runs atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		v := int32(i)
		d.Trigger(func() {
			runs.Add(1)
			last.Store(v)
		})
	}

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())

	// 静默后不会再触发
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var runs atomic.Int32

	d.Trigger(func() { runs.Add(1) })
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, runs.Load())
}

func TestDebouncerSeparateWindows(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var runs atomic.Int32

	d.Trigger(func() { runs.Add(1) })
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger(func() { runs.Add(1) })
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
}
