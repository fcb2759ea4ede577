package service

import (
	"log"
	"time"

	"github.com/user/cinebox/internal/repository"
)

// historyRetention 点击记录保留时长，超过即被定时清理
const historyRetention = 30 * 24 * time.Hour

// CleanupService 清理服务
type CleanupService struct {
	repos *repository.Repositories
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories) *CleanupService {
	return &CleanupService{repos: repos}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	log.Println("[CleanupService] 开始清理过期数据...")

	cutoff := time.Now().Add(-historyRetention).UnixMilli()
	affected, err := s.repos.History.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("[CleanupService] 清理过期点击记录失败: %v", err)
	} else if affected > 0 {
		log.Printf("[CleanupService] 已清理 %d 条超过 30 天的点击记录", affected)
	}
}
