package repository

import (
	"errors"

	"github.com/user/cinebox/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert 按 ID 插入或覆盖用户（远程登录成功后以远程分配的 ID 为准）
func (r *UserRepository) Upsert(user *model.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "password", "avatar_pexels_id", "avatar_url"}),
	}).Create(user).Error
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByEmailAndPassword 根据邮箱和明文密码查找用户（本地回退登录用）
func (r *UserRepository) FindByEmailAndPassword(email, password string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ? AND password = ?", email, password).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// EmailExists 判断邮箱是否已注册
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateAvatar 更新用户头像字段（两个都为 nil 表示清除头像）
func (r *UserRepository) UpdateAvatar(userID int64, pexelsID *int, url *string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"avatar_pexels_id": pexelsID,
		"avatar_url":       url,
	}).Error
}

// ListAll 获取所有用户列表
func (r *UserRepository) ListAll() ([]*model.User, error) {
	var users []*model.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// Delete 删除用户（历史记录级联删除）
func (r *UserRepository) Delete(userID int64) error {
	return r.db.Delete(&model.User{}, userID).Error
}
