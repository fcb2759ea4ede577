// Package session 维护进程内的当前登录用户。
// 不做全局单例，由构造方显式注入到需要当前用户上下文的组件。
package session

import (
	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/stream"
)

// Session 当前用户持有者，两个状态：未登录（nil）和已登录（一个用户）。
// 写入方约定为单一（仅登录/登出/改头像），进程重启后不保留。
type Session struct {
	current *stream.State[*model.User]
}

// New 创建未登录状态的会话
func New() *Session {
	return &Session{current: stream.NewState[*model.User](nil)}
}

// Login 设置当前用户
func (s *Session) Login(user *model.User) {
	s.current.Set(user)
}

// Logout 清除当前用户
func (s *Session) Logout() {
	s.current.Set(nil)
}

// CurrentUser 返回当前用户，未登录为 nil
func (s *Session) CurrentUser() *model.User {
	return s.current.Get()
}

// IsLoggedIn 是否已登录
func (s *Session) IsLoggedIn() bool {
	return s.current.Get() != nil
}

// UpdateAvatar 更新当前用户的头像字段（两个都为 nil 表示清除）
func (s *Session) UpdateAvatar(pexelsID *int, url *string) {
	user := s.current.Get()
	if user == nil {
		return
	}
	updated := *user
	updated.AvatarPexelsID = pexelsID
	updated.AvatarURL = url
	s.current.Set(&updated)
}

// Subscribe 订阅当前用户变化（先送达当前值），用于派生视图的重新绑定
func (s *Session) Subscribe() (<-chan *model.User, func()) {
	return s.current.Subscribe()
}
