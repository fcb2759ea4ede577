package model

// User 用户模型（本地数据库为准，远程服务只是次要来源）
// 注意：密码按原始行为以明文存储和比对，本地回退登录依赖这一点
type User struct {
	ID             int64   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name           string  `json:"name" db:"name"`
	Email          string  `json:"email" db:"email" gorm:"unique"`
	Password       string  `json:"-" db:"password"`
	AvatarPexelsID *int    `json:"avatar_pexels_id" db:"avatar_pexels_id"`
	AvatarURL      *string `json:"avatar_url" db:"avatar_url"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID    int64
	Name  string
	Email string
}

// HistoryEntry 观影点击记录
// 时间戳为毫秒级 Unix 时间，默认写入时取当前时间；用户删除时级联删除
type HistoryEntry struct {
	ID        int64 `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64 `json:"user_id" db:"user_id" gorm:"index:idx_history_user_time;constraint:OnDelete:CASCADE"`
	MovieID   int   `json:"movie_id" db:"movie_id"`
	Timestamp int64 `json:"timestamp" db:"timestamp" gorm:"index:idx_history_user_time"`
	User      *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Avatar 头像（第三方图片搜索结果的引用，不落库，仅作为 User 上的字段保存）
type Avatar struct {
	PexelsID int    `json:"pexels_id"`
	URL      string `json:"url"`
}

// AvatarCategoryConfig 头像搜索分类配置（标签 + 搜索词）
type AvatarCategoryConfig struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// AvatarCategory 单个分类的搜索结果
type AvatarCategory struct {
	Label   string   `json:"label"`
	Avatars []Avatar `json:"avatars"`
}
