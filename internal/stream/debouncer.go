package stream

import (
	"sync"
	"time"
)

// Debouncer 把静默窗口内的连续触发合并成一次回调：
// 每次 Trigger 都重置计时器，只有最后一次触发在窗口结束后执行。
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
}

// NewDebouncer 创建防抖器，window 为输入静默窗口
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger 安排 fn 在静默窗口结束后执行，替换掉任何未执行的上一次安排
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop 取消未执行的安排（组件销毁时调用）
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
