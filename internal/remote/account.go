package remote

import (
	"context"

	"github.com/user/cinebox/internal/config"
	"github.com/user/cinebox/internal/utils"
)

// AccountClient 远程账号服务客户端
type AccountClient struct {
	baseURL string
	client  *utils.HTTPClient
}

// NewAccountClient 创建账号服务客户端
func NewAccountClient(cfg *config.Config) *AccountClient {
	return &AccountClient{
		baseURL: cfg.AccountBaseURL,
		client:  utils.NewHTTPClient(nil),
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	AvatarID int    `json:"avatarId"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Login 远程登录
func (c *AccountClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var result LoginResponse
	err := c.client.PostJSON(ctx, c.baseURL+"/auth/login", LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register 远程注册
func (c *AccountClient) Register(ctx context.Context, name, email, password string) (*RegisterResponse, error) {
	var result RegisterResponse
	err := c.client.PostJSON(ctx, c.baseURL+"/auth/register", RegisterRequest{Name: name, Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
