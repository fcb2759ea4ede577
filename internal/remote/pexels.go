package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/user/cinebox/internal/config"
	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/utils"
)

// PexelsClient 图片搜索客户端（头像选择用）
type PexelsClient struct {
	baseURL string
	client  *utils.HTTPClient
}

// NewPexelsClient 创建图片搜索客户端
func NewPexelsClient(cfg *config.Config) *PexelsClient {
	return &PexelsClient{
		baseURL: cfg.PexelsBaseURL,
		client: utils.NewHTTPClient(map[string]string{
			"Authorization": cfg.PexelsAPIKey,
		}),
	}
}

// PexelsSearchResponse 图片搜索接口的分页响应
type PexelsSearchResponse struct {
	Photos       []PexelsPhoto `json:"photos"`
	TotalResults int           `json:"total_results"`
	PerPage      int           `json:"per_page"`
	Page         int           `json:"page"`
	NextPage     *string       `json:"next_page"`
}

// PexelsPhoto 单张图片
type PexelsPhoto struct {
	ID           int         `json:"id"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	URL          string      `json:"url"`
	Photographer string      `json:"photographer"`
	Src          PhotoSource `json:"src"`
	Alt          *string     `json:"alt"`
}

// PhotoSource 图片的各分辨率地址
type PhotoSource struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// SearchPhotos 按关键词搜索图片，映射为头像列表（取 medium 分辨率）
func (c *PexelsClient) SearchPhotos(ctx context.Context, query string, perPage int, orientation string) ([]model.Avatar, error) {
	u := fmt.Sprintf("%s/search?query=%s&per_page=%d&orientation=%s",
		c.baseURL, url.QueryEscape(query), perPage, orientation)

	var result PexelsSearchResponse
	if err := c.client.GetJSON(ctx, u, &result); err != nil {
		return nil, err
	}

	avatars := make([]model.Avatar, 0, len(result.Photos))
	for _, photo := range result.Photos {
		avatars = append(avatars, model.Avatar{PexelsID: photo.ID, URL: photo.Src.Medium})
	}
	return avatars, nil
}
