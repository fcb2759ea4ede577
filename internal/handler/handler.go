package handler

import (
	"github.com/user/cinebox/internal/config"
	"github.com/user/cinebox/internal/remote"
	"github.com/user/cinebox/internal/repository"
	"github.com/user/cinebox/internal/service"
	"github.com/user/cinebox/internal/session"
)

// Handler HTTP 处理器
type Handler struct {
	Repos   *repository.Repositories
	Config  *config.Config
	Session *session.Session
	Catalog *service.CatalogService
	Account *service.AccountService
	Avatar  *service.AvatarService
}

// NewHandler 创建处理器并装配各服务
func NewHandler(repos *repository.Repositories, cfg *config.Config, sess *session.Session) *Handler {
	// 远程客户端
	movieClient := remote.NewMovieClient(cfg)
	accountClient := remote.NewAccountClient(cfg)
	pexelsClient := remote.NewPexelsClient(cfg)

	return &Handler{
		Repos:   repos,
		Config:  cfg,
		Session: sess,
		Catalog: service.NewCatalogService(movieClient, repos.History, sess),
		Account: service.NewAccountService(accountClient, repos.User, sess),
		Avatar:  service.NewAvatarService(pexelsClient, service.DefaultAvatarCategories),
	}
}
