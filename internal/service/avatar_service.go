package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/utils"
)

const (
	avatarsPerCategory = 20
	avatarOrientation  = "square"
)

// PhotoSource 图片搜索来源
type PhotoSource interface {
	SearchPhotos(ctx context.Context, query string, perPage int, orientation string) ([]model.Avatar, error)
}

// DefaultAvatarCategories 固定的头像分类配置
var DefaultAvatarCategories = []model.AvatarCategoryConfig{
	{Label: "Pessoas Masculinas", Query: "male face"},
	{Label: "Pessoas Femininas", Query: "female face"},
	{Label: "Desenhos Animados", Query: "cartoon avatar"},
	{Label: "Gatos", Query: "cat face"},
	{Label: "Cachorros", Query: "dog face"},
	{Label: "Fantasia", Query: "fantasy character"},
	{Label: "Robôs", Query: "robot"},
}

// AvatarFetchResult 聚合结果：成功的分类列表 + 可选的聚合错误文案
type AvatarFetchResult struct {
	Categories []model.AvatarCategory `json:"categories"`
	ErrMessage string                 `json:"error,omitempty"`
}

// AvatarService 头像分类搜索：对固定分类并发发起图片搜索，
// 各分类的结果互相独立，个别分类失败不影响其余分类展示（部分成功策略）。
type AvatarService struct {
	photos     PhotoSource
	categories []model.AvatarCategoryConfig
	cache      *utils.SearchCache[[]model.Avatar]
}

// NewAvatarService 创建头像搜索服务
func NewAvatarService(photos PhotoSource, categories []model.AvatarCategoryConfig) *AvatarService {
	return &AvatarService{
		photos:     photos,
		categories: categories,
		cache:      utils.NewSearchCache[[]model.Avatar](200, time.Hour),
	}
}

// FetchAvatars 并发抓取所有分类并等待全部完成（不做流式更新）。
// 错误归类：有任一分类出错时，在成功结果旁附上拼接的错误文案；
// 无错误但所有分类都没有图片时给出"未找到"文案；完全没有配置分类时给出配置错误文案。
func (s *AvatarService) FetchAvatars(ctx context.Context) *AvatarFetchResult {
	if len(s.categories) == 0 {
		return &AvatarFetchResult{Categories: []model.AvatarCategory{}, ErrMessage: "没有配置任何头像分类"}
	}

	type slot struct {
		avatars []model.Avatar
		err     error
	}
	slots := make([]slot, len(s.categories))

	var wg sync.WaitGroup
	for i, cfg := range s.categories {
		wg.Add(1)
		go func(i int, cfg model.AvatarCategoryConfig) {
			defer wg.Done()
			avatars, err := s.searchCategory(ctx, cfg.Query)
			slots[i] = slot{avatars: avatars, err: err}
		}(i, cfg)
	}
	wg.Wait()

	result := &AvatarFetchResult{Categories: make([]model.AvatarCategory, 0, len(s.categories))}
	var errMessages []string
	for i, cfg := range s.categories {
		if slots[i].err != nil {
			errMessages = append(errMessages, fmt.Sprintf("分类 %q 加载失败: %v", cfg.Label, slots[i].err))
			continue
		}
		if len(slots[i].avatars) > 0 {
			result.Categories = append(result.Categories, model.AvatarCategory{
				Label:   cfg.Label,
				Avatars: slots[i].avatars,
			})
		}
	}

	switch {
	case len(errMessages) > 0:
		result.ErrMessage = "部分头像加载失败:\n" + strings.Join(errMessages, "\n")
	case len(result.Categories) == 0:
		result.ErrMessage = "没有找到任何头像"
	}
	return result
}

// searchCategory 单分类搜索，带 LRU+TTL 缓存
func (s *AvatarService) searchCategory(ctx context.Context, query string) ([]model.Avatar, error) {
	if cached, ok := s.cache.Get(query); ok {
		return cached, nil
	}
	avatars, err := s.photos.SearchPhotos(ctx, query, avatarsPerCategory, avatarOrientation)
	if err != nil {
		return nil, err
	}
	s.cache.Set(query, avatars)
	return avatars, nil
}
