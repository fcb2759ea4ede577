package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/service"
	"github.com/user/cinebox/internal/utils"
)

// catalogSnapshot 列表页状态快照
type catalogSnapshot struct {
	State        service.DisplayState `json:"state"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
	SearchQuery  string               `json:"search_query"`
	SearchActive bool                 `json:"search_active"`
	Movies       []model.Movie        `json:"movies"`
	Filtered     []model.Movie        `json:"filtered"`
	History      []model.Movie        `json:"history"`
}

// Movies 返回列表页当前状态（目录、过滤结果、最近观看与展示状态）
func (h *Handler) Movies(c *gin.Context) {
	utils.Success(c, h.snapshot())
}

// RefreshMovies 重新加载热门电影页后返回最新状态
func (h *Handler) RefreshMovies(c *gin.Context) {
	h.Catalog.LoadPopularMovies(c.Request.Context())
	utils.Success(c, h.snapshot())
}

// searchRequest 搜索请求体
type searchRequest struct {
	Query string `json:"query"`
}

// SearchMovies 记录查询词。过滤结果在防抖窗口结束后出现在状态快照里，
// 空查询立即退出搜索模式并清空结果。
func (h *Handler) SearchMovies(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	h.Catalog.SetSearchQuery(req.Query)
	utils.Success(c, h.snapshot())
}

// MoviesByGenre 按类型过滤目录
func (h *Handler) MoviesByGenre(c *gin.Context) {
	genreID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的类型 ID")
		return
	}

	movies := h.Catalog.MoviesByGenre(genreID)
	utils.Success(c, gin.H{
		"genre_id":   genreID,
		"genre_name": model.GenreMap[genreID],
		"movies":     movies,
	})
}

// RecordClick 记录电影点击（未登录时静默跳过，不报错）
func (h *Handler) RecordClick(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	h.Catalog.RecordClick(movieID)
	utils.Success(c, nil)
}

// History 返回"最近观看"视图
func (h *Handler) History(c *gin.Context) {
	utils.Success(c, h.Catalog.HistoryMovies())
}

// ClearHistory 清空当前用户的点击记录
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.Catalog.ClearHistory(); err != nil {
		utils.InternalServerError(c, "清空历史失败: "+err.Error())
		return
	}
	utils.SuccessWithMessage(c, "历史已清空", nil)
}

func (h *Handler) snapshot() catalogSnapshot {
	return catalogSnapshot{
		State:        h.Catalog.DisplayState(),
		Loading:      h.Catalog.IsLoading(),
		Error:        h.Catalog.ErrorMessage(),
		SearchQuery:  h.Catalog.SearchQuery(),
		SearchActive: h.Catalog.IsSearchActive(),
		Movies:       h.Catalog.Movies(),
		Filtered:     h.Catalog.FilteredMovies(),
		History:      h.Catalog.HistoryMovies(),
	}
}
