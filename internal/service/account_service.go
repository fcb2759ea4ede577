package service

import (
	"context"
	"errors"
	"log"

	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/remote"
	"github.com/user/cinebox/internal/session"
)

// ErrEmailRegistered 邮箱已被本地注册
var ErrEmailRegistered = errors.New("该邮箱已被注册")

// AccountAPI 远程账号服务
type AccountAPI interface {
	Login(ctx context.Context, email, password string) (*remote.LoginResponse, error)
	Register(ctx context.Context, name, email, password string) (*remote.RegisterResponse, error)
}

// UserStore 本地用户存储
type UserStore interface {
	Upsert(user *model.User) error
	FindByEmailAndPassword(email, password string) (*model.User, error)
	EmailExists(email string) (bool, error)
	UpdateAvatar(userID int64, pexelsID *int, url *string) error
}

// AccountService 认证与当前登录身份管理。
// 本地存储是系统记录，远程服务是尽力而为的次要来源。
type AccountService struct {
	api   AccountAPI
	users UserStore
	sess  *session.Session
}

// NewAccountService 创建账号服务
func NewAccountService(api AccountAPI, users UserStore, sess *session.Session) *AccountService {
	return &AccountService{api: api, users: users, sess: sess}
}

// Login 登录：先尝试远程认证，成功后以远程分配的 ID 覆盖写入本地并登入会话；
// 远程失败（含纯连接失败）则回退到本地邮箱+密码精确匹配。
// 两边都失败时返回的是最初的远程错误——本地未命中的原因被丢弃，这是对原行为的保留。
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		local, localErr := s.users.FindByEmailAndPassword(email, password)
		if localErr == nil && local != nil {
			log.Printf("[AccountService] 远程登录失败，已回退到本地用户 (Email: %s): %v", email, err)
			s.sess.Login(local)
			return local, nil
		}
		return nil, err
	}

	user := &model.User{
		ID:       resp.UserID,
		Name:     resp.Name,
		Email:    resp.Email,
		Password: password,
	}
	if err := s.users.Upsert(user); err != nil {
		return nil, err
	}

	s.sess.Login(user)
	return user, nil
}

// Register 注册：本地已有该邮箱时直接拒绝，不触发远程调用；
// 否则必须远程注册成功才落库并登入（没有纯本地注册的回退路径）。
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailRegistered
	}

	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       resp.UserID,
		Name:     resp.Name,
		Email:    resp.Email,
		Password: password,
	}
	if err := s.users.Upsert(user); err != nil {
		return nil, err
	}

	s.sess.Login(user)
	return user, nil
}

// UpdateAvatar 更新头像引用（两个字段都为 nil 表示清除），并同步到会话中的当前用户
func (s *AccountService) UpdateAvatar(userID int64, pexelsID *int, url *string) error {
	if err := s.users.UpdateAvatar(userID, pexelsID, url); err != nil {
		return err
	}
	if current := s.sess.CurrentUser(); current != nil && current.ID == userID {
		s.sess.UpdateAvatar(pexelsID, url)
	}
	return nil
}

// Logout 登出当前用户
func (s *AccountService) Logout() {
	s.sess.Logout()
}
