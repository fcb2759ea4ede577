package repository

import (
	"time"

	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/stream"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db      *gorm.DB
	changes *stream.Broadcaster
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{
		db:      db,
		changes: stream.NewBroadcaster(),
	}
}

// Insert 追加一条点击记录，时间戳为空时取当前时间（毫秒）
func (r *HistoryRepository) Insert(entry *model.HistoryEntry) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return err
	}
	r.changes.Notify()
	return nil
}

// ListByUser 获取用户的点击记录，按时间倒序
func (r *HistoryRepository) ListByUser(userID int64) ([]*model.HistoryEntry, error) {
	var entries []*model.HistoryEntry
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

// CountByUser 统计用户的点击记录数量
func (r *HistoryRepository) CountByUser(userID int64) (int, error) {
	var count int64
	err := r.db.Model(&model.HistoryEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// ClearByUser 清空用户的全部点击记录
func (r *HistoryRepository) ClearByUser(userID int64) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.HistoryEntry{}).Error; err != nil {
		return err
	}
	r.changes.Notify()
	return nil
}

// DeleteOlderThan 删除指定时间戳（毫秒）之前的记录，返回删除条数
func (r *HistoryRepository) DeleteOlderThan(cutoff int64) (int64, error) {
	res := r.db.Where("timestamp < ?", cutoff).Delete(&model.HistoryEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.changes.Notify()
	}
	return res.RowsAffected, nil
}

// Changes 订阅记录变更信号（插入/清理后触发），用于驱动派生视图
func (r *HistoryRepository) Changes() (<-chan struct{}, func()) {
	return r.changes.Subscribe()
}
