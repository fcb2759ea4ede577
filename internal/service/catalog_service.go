package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/session"
	"github.com/user/cinebox/internal/stream"
	"github.com/user/cinebox/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	// searchDebounceWindow 搜索输入的静默窗口，窗口内的连续输入只触发一次过滤
	searchDebounceWindow = 300 * time.Millisecond
	// historyViewLimit "最近观看"视图最多保留的去重电影数
	historyViewLimit = 15

	popularCacheKey = "movies:popular"
	popularCacheTTL = 5 * time.Minute
)

// MovieSource 电影目录来源
type MovieSource interface {
	PopularMovies(ctx context.Context) ([]model.Movie, error)
}

// HistoryStore 点击记录存储
type HistoryStore interface {
	Insert(entry *model.HistoryEntry) error
	ListByUser(userID int64) ([]*model.HistoryEntry, error)
	ClearByUser(userID int64) error
	Changes() (<-chan struct{}, func())
}

// DisplayState 列表页展示状态，由各独立标志位按当前值推导（电平触发）
type DisplayState string

const (
	StateLoading          DisplayState = "loading"
	StateError            DisplayState = "error"
	StateSearchEmptyQuery DisplayState = "search_empty_query"
	StateSearchNoResults  DisplayState = "search_no_results"
	StateSearchResults    DisplayState = "search_results"
	StateCatalog          DisplayState = "catalog"
)

// CatalogService 电影列表状态协调器：
// 持有内存中的电影目录，派生搜索结果、类型分组和"最近观看"视图，不重复拉取。
type CatalogService struct {
	source  MovieSource
	history HistoryStore
	sess    *session.Session

	movies        *stream.State[[]model.Movie]
	loading       *stream.State[bool]
	errMsg        *stream.State[string]
	searchQuery   *stream.State[string]
	searchActive  *stream.State[bool]
	filtered      *stream.State[[]model.Movie]
	historyMovies *stream.State[[]model.Movie]

	debouncer *stream.Debouncer
	sf        singleflight.Group
	done      chan struct{}
	closeOnce sync.Once
}

// NewCatalogService 创建协调器并启动"最近观看"派生流
func NewCatalogService(source MovieSource, history HistoryStore, sess *session.Session) *CatalogService {
	s := &CatalogService{
		source:        source,
		history:       history,
		sess:          sess,
		movies:        stream.NewState([]model.Movie{}),
		loading:       stream.NewState(false),
		errMsg:        stream.NewState(""),
		searchQuery:   stream.NewState(""),
		searchActive:  stream.NewState(false),
		filtered:      stream.NewState([]model.Movie{}),
		historyMovies: stream.NewState([]model.Movie{}),
		debouncer:     stream.NewDebouncer(searchDebounceWindow),
		done:          make(chan struct{}),
	}
	go s.watchHistory()
	return s
}

// LoadPopularMovies 加载固定的热门电影页。
// 空结果记为"没有找到电影"，拉取失败记为网络错误，两者都只更新错误状态，不替换目录；
// 成功则替换内存目录，若搜索处于激活状态则按新目录重算过滤结果。
func (s *CatalogService) LoadPopularMovies(ctx context.Context) {
	s.loading.Set(true)
	s.errMsg.Set("")

	movies, err := s.fetchPopular(ctx)
	switch {
	case err != nil:
		s.errMsg.Set("加载电影失败: " + err.Error())
	case len(movies) == 0:
		s.errMsg.Set("没有找到电影，请检查网络连接")
	default:
		s.movies.Set(movies)
		if s.searchActive.Get() {
			s.updateFilteredMovies()
		}
	}

	s.loading.Set(false)
}

// fetchPopular 先查 TTL 缓存，未命中用 singleflight 合并并发拉取
func (s *CatalogService) fetchPopular(ctx context.Context) ([]model.Movie, error) {
	if cached, ok := utils.CacheGet(popularCacheKey); ok {
		return cached.([]model.Movie), nil
	}

	val, err, _ := s.sf.Do(popularCacheKey, func() (interface{}, error) {
		movies, err := s.source.PopularMovies(ctx)
		if err != nil {
			return nil, err
		}
		if len(movies) > 0 {
			utils.CacheSet(popularCacheKey, movies, popularCacheTTL)
		}
		return movies, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]model.Movie), nil
}

// SetSearchQuery 记录原始查询词；非空进入搜索模式，为空立即清空结果。
// 非空时过滤计算延后到防抖窗口结束，新输入会顶替未执行的旧计算。
func (s *CatalogService) SetSearchQuery(query string) {
	s.searchQuery.Set(query)
	s.searchActive.Set(query != "")

	if query == "" {
		s.filtered.Set([]model.Movie{})
		return
	}
	s.debouncer.Trigger(s.updateFilteredMovies)
}

// ClearSearch 退出搜索模式并清空结果
func (s *CatalogService) ClearSearch() {
	s.searchQuery.Set("")
	s.searchActive.Set(false)
	s.filtered.Set([]model.Movie{})
}

// ToggleSearchActive 切换搜索模式，关闭时顺带清空
func (s *CatalogService) ToggleSearchActive() {
	active := !s.searchActive.Get()
	s.searchActive.Set(active)
	if !active {
		s.ClearSearch()
	}
}

// updateFilteredMovies 三档相关性过滤：
// (a) 标题完全相等 (b) 标题包含（排除 a） (c) 简介包含（排除 a、b），
// 按 a、b、c 顺序拼接，档内保持目录顺序，三档互不重复。
func (s *CatalogService) updateFilteredMovies() {
	query := strings.ToLower(strings.TrimSpace(s.searchQuery.Get()))
	if query == "" {
		s.filtered.Set([]model.Movie{})
		return
	}

	catalog := s.movies.Get()
	matched := make(map[int]bool, len(catalog))

	var exact, title, overview []model.Movie
	for _, m := range catalog {
		if strings.ToLower(m.Title) == query {
			exact = append(exact, m)
			matched[m.ID] = true
		}
	}
	for _, m := range catalog {
		if !matched[m.ID] && strings.Contains(strings.ToLower(m.Title), query) {
			title = append(title, m)
			matched[m.ID] = true
		}
	}
	for _, m := range catalog {
		if !matched[m.ID] && strings.Contains(strings.ToLower(m.Overview), query) {
			overview = append(overview, m)
		}
	}

	results := make([]model.Movie, 0, len(exact)+len(title)+len(overview))
	results = append(results, exact...)
	results = append(results, title...)
	results = append(results, overview...)
	s.filtered.Set(results)
}

// MoviesByGenre 按类型 ID 过滤内存目录，按需重算，不缓存
func (s *CatalogService) MoviesByGenre(genreID int) []model.Movie {
	var result []model.Movie
	for _, m := range s.movies.Get() {
		if m.IsGenre(genreID) {
			result = append(result, m)
		}
	}
	return result
}

// RecordClick 为当前用户追加一条点击记录。
// 未登录时静默跳过（只记警告日志）；写入失败同样只记日志，点击记录是尽力而为的埋点。
func (s *CatalogService) RecordClick(movieID int) {
	user := s.sess.CurrentUser()
	if user == nil {
		log.Printf("[CatalogService] 未登录状态下的电影点击，跳过记录 (MovieID: %d)", movieID)
		return
	}

	entry := &model.HistoryEntry{UserID: user.ID, MovieID: movieID}
	if err := s.history.Insert(entry); err != nil {
		log.Printf("[CatalogService] 记录电影点击失败 (MovieID: %d): %v", movieID, err)
		return
	}
	log.Printf("[CatalogService] 已记录点击 (UserID: %d, MovieID: %d)", user.ID, movieID)
}

// ClearHistory 清空当前用户的全部点击记录
func (s *CatalogService) ClearHistory() error {
	user := s.sess.CurrentUser()
	if user == nil {
		return nil
	}
	return s.history.ClearByUser(user.ID)
}

// watchHistory 组合三个来源驱动"最近观看"视图：
// 当前用户变化、点击记录变更信号、目录替换，任一发生都重算一次。
func (s *CatalogService) watchHistory() {
	userCh, cancelUser := s.sess.Subscribe()
	defer cancelUser()
	histCh, cancelHist := s.history.Changes()
	defer cancelHist()
	movieCh, cancelMovies := s.movies.Subscribe()
	defer cancelMovies()

	var user *model.User
	var catalog []model.Movie

	for {
		select {
		case <-s.done:
			return
		case u, ok := <-userCh:
			if !ok {
				return
			}
			user = u
		case _, ok := <-histCh:
			if !ok {
				return
			}
		case ms, ok := <-movieCh:
			if !ok {
				return
			}
			catalog = ms
		}
		s.refreshHistoryView(user, catalog)
	}
}

// refreshHistoryView 重算"最近观看"：
// 记录已按时间倒序，按电影 ID 去重（保留最新一次），截取前 15 个，
// 再按目录查出 Movie 对象；不在当前目录里的记录被静默丢弃。
func (s *CatalogService) refreshHistoryView(user *model.User, catalog []model.Movie) {
	if user == nil {
		s.historyMovies.Set([]model.Movie{})
		return
	}

	entries, err := s.history.ListByUser(user.ID)
	if err != nil {
		log.Printf("[CatalogService] 读取点击记录失败 (UserID: %d): %v", user.ID, err)
		return
	}

	seen := make(map[int]bool, len(entries))
	distinct := make([]*model.HistoryEntry, 0, historyViewLimit)
	for _, entry := range entries {
		if seen[entry.MovieID] {
			continue
		}
		seen[entry.MovieID] = true
		distinct = append(distinct, entry)
		if len(distinct) == historyViewLimit {
			break
		}
	}

	byID := make(map[int]model.Movie, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}

	result := make([]model.Movie, 0, len(distinct))
	for _, entry := range distinct {
		if m, ok := byID[entry.MovieID]; ok {
			result = append(result, m)
		}
	}
	s.historyMovies.Set(result)
}

// DisplayState 由各标志位推导出六个互斥展示状态之一
func (s *CatalogService) DisplayState() DisplayState {
	switch {
	case s.loading.Get():
		return StateLoading
	case s.errMsg.Get() != "":
		return StateError
	case s.searchActive.Get():
		if strings.TrimSpace(s.searchQuery.Get()) == "" {
			return StateSearchEmptyQuery
		}
		if len(s.filtered.Get()) == 0 {
			return StateSearchNoResults
		}
		return StateSearchResults
	default:
		return StateCatalog
	}
}

// Movies 当前内存目录
func (s *CatalogService) Movies() []model.Movie { return s.movies.Get() }

// FilteredMovies 当前搜索结果
func (s *CatalogService) FilteredMovies() []model.Movie { return s.filtered.Get() }

// HistoryMovies 当前"最近观看"视图
func (s *CatalogService) HistoryMovies() []model.Movie { return s.historyMovies.Get() }

// SearchQuery 当前查询词
func (s *CatalogService) SearchQuery() string { return s.searchQuery.Get() }

// IsSearchActive 是否处于搜索模式
func (s *CatalogService) IsSearchActive() bool { return s.searchActive.Get() }

// IsLoading 是否在加载
func (s *CatalogService) IsLoading() bool { return s.loading.Get() }

// ErrorMessage 当前错误信息，空串表示无错误
func (s *CatalogService) ErrorMessage() string { return s.errMsg.Get() }

// Close 停止派生流和未执行的防抖计算（属主销毁时调用）
func (s *CatalogService) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.debouncer.Stop()
	})
}
