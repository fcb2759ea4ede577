// Package stream 提供最小的响应式原语：带最新值语义的可观察状态、
// 变更广播信号，以及按输入静默窗口合并计算的防抖器。
package stream

import "sync"

// State 持有一个最新值并向多个订阅者扇出更新。
// 新订阅者会先收到当前值，之后收到每次 Set 的新值；
// 订阅通道容量为 1，消费慢时旧值被新值覆盖（只保留最新）。
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

// NewState 创建状态持有者并设置初始值
func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[int]chan T),
	}
}

// Get 返回当前值
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set 更新当前值并通知所有订阅者
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	for _, ch := range s.subs {
		// 丢弃积压的旧值，保证通道里永远是最新值
		select {
		case <-ch:
		default:
		}
		ch <- value
	}
	s.mu.Unlock()
}

// Subscribe 订阅状态变化，返回接收通道和取消函数。
// 通道上先送达当前值，之后是每次更新后的最新值。
func (s *State[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	ch := make(chan T, 1)
	ch <- s.value
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
