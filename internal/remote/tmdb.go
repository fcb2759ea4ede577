// Package remote 封装对第三方服务的 HTTP 访问：
// 电影目录（TMDB）、账号服务和图片搜索（Pexels）。
package remote

import (
	"context"
	"fmt"

	"github.com/user/cinebox/internal/config"
	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/utils"
)

// MovieClient 电影目录客户端
type MovieClient struct {
	baseURL  string
	language string
	client   *utils.HTTPClient
}

// NewMovieClient 创建电影目录客户端
func NewMovieClient(cfg *config.Config) *MovieClient {
	return &MovieClient{
		baseURL:  cfg.TMDBBaseURL,
		language: cfg.MovieLanguage,
		client: utils.NewHTTPClient(map[string]string{
			"Authorization": "Bearer " + cfg.TMDBToken,
		}),
	}
}

// PopularMovies 获取固定的热门电影页
func (c *MovieClient) PopularMovies(ctx context.Context) ([]model.Movie, error) {
	url := fmt.Sprintf("%s/movie/popular?language=%s", c.baseURL, c.language)

	var result model.MovieResponse
	if err := c.client.GetJSON(ctx, url, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}
