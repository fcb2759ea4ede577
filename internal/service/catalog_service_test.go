package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/session"
	"github.com/user/cinebox/internal/utils"
)

func newTestCatalog(t *testing.T, source *fakeMovieSource, history *fakeHistoryStore) (*CatalogService, *session.Session) {
	t.Helper()
	utils.InitCache()
	sess := session.New()
	svc := NewCatalogService(source, history, sess)
	t.Cleanup(svc.Close)
	return svc, sess
}

func testCatalogMovies() []model.Movie {
	return []model.Movie{
		{ID: 1, Title: "Dune", Overview: "desert", GenreIDs: []int{878, 12}},
		{ID: 2, Title: "Dune Part Two", Overview: "sequel", GenreIDs: []int{878}},
		{ID: 3, Title: "Paddington", Overview: "a bear in the desert of London", GenreIDs: []int{10751, 35}},
		{ID: 4, Title: "Oppenheimer", Overview: "the bomb", GenreIDs: []int{18, 36}},
	}
}

func movieIDs(movies []model.Movie) []int {
	ids := make([]int, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestLoadPopularMoviesReplacesCatalog(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())

	svc.LoadPopularMovies(context.Background())

	require.Len(t, svc.Movies(), 4)
	assert.False(t, svc.IsLoading())
	assert.Empty(t, svc.ErrorMessage())
	assert.Equal(t, StateCatalog, svc.DisplayState())
}

func TestLoadPopularMoviesEmptyResult(t *testing.T) {
	source := &fakeMovieSource{movies: []model.Movie{}}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())

	svc.LoadPopularMovies(context.Background())

	assert.Empty(t, svc.Movies())
	assert.Contains(t, svc.ErrorMessage(), "没有找到电影")
	assert.Equal(t, StateError, svc.DisplayState())
}

func TestLoadPopularMoviesNetworkError(t *testing.T) {
	source := &fakeMovieSource{err: errors.New("connection refused")}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())

	svc.LoadPopularMovies(context.Background())

	assert.Contains(t, svc.ErrorMessage(), "加载电影失败")
	assert.Contains(t, svc.ErrorMessage(), "connection refused")
	assert.Equal(t, StateError, svc.DisplayState())
}

func TestLoadPopularMoviesUsesCache(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())

	svc.LoadPopularMovies(context.Background())
	svc.LoadPopularMovies(context.Background())

	source.mu.Lock()
	calls := source.calls
	source.mu.Unlock()
	assert.Equal(t, 1, calls)
}

// 三档相关性：标题完全匹配 > 标题包含 > 简介包含，档内保持目录顺序，互不重复
func TestFilterRelevanceTiers(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("dune")
	require.Eventually(t, func() bool {
		return len(svc.FilteredMovies()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	// "Dune" 完全匹配排最前，"Dune Part Two" 标题包含次之，无简介命中
	assert.Equal(t, []int{1, 2}, movieIDs(svc.FilteredMovies()))
}

func TestFilterDescriptionTier(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("desert")
	require.Eventually(t, func() bool {
		return len(svc.FilteredMovies()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	// 没有标题命中，Dune 和 Paddington 都只在简介里出现，保持目录顺序
	assert.Equal(t, []int{1, 3}, movieIDs(svc.FilteredMovies()))
}

func TestFilterTrimsAndLowercases(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("  DUNE  ")
	require.Eventually(t, func() bool {
		return len(svc.FilteredMovies()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []int{1, 2}, movieIDs(svc.FilteredMovies()))
}

func TestEmptyQueryDeactivatesSearch(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("dune")
	require.Eventually(t, func() bool {
		return len(svc.FilteredMovies()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	svc.SetSearchQuery("")

	assert.False(t, svc.IsSearchActive())
	assert.Empty(t, svc.FilteredMovies())
	assert.Equal(t, StateCatalog, svc.DisplayState())
}

// 防抖：窗口内的连续输入只触发最后一次计算
func TestSearchDebounceCoalescesInput(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("d")
	svc.SetSearchQuery("du")
	svc.SetSearchQuery("dune")

	// 窗口未结束前不应有结果
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, svc.FilteredMovies())

	require.Eventually(t, func() bool {
		return len(svc.FilteredMovies()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int{1, 2}, movieIDs(svc.FilteredMovies()))
	assert.Equal(t, "dune", svc.SearchQuery())
}

func TestSearchNoResultsState(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("nonexistent")
	require.Eventually(t, func() bool {
		return svc.DisplayState() == StateSearchNoResults
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReloadRecomputesActiveSearch(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.SetSearchQuery("dune")
	require.Eventually(t, func() bool {
		return len(svc.FilteredMovies()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// 换一批目录后重新加载，过滤结果要按新目录重算
	source.set([]model.Movie{{ID: 9, Title: "Dune Messiah", Overview: "prophet"}}, nil)
	utils.InitCache()
	svc.LoadPopularMovies(context.Background())

	assert.Equal(t, []int{9}, movieIDs(svc.FilteredMovies()))
}

func TestMoviesByGenre(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	assert.Equal(t, []int{1, 2}, movieIDs(svc.MoviesByGenre(878)))
	assert.Equal(t, []int{3}, movieIDs(svc.MoviesByGenre(35)))
	assert.Empty(t, svc.MoviesByGenre(27))
}

// 未登录的点击是静默空操作：不报错也不写任何记录
func TestRecordClickWithoutUser(t *testing.T) {
	history := newFakeHistoryStore()
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, history)

	svc.RecordClick(1)

	assert.Zero(t, history.count(7))
	assert.Empty(t, history.entries)
}

func TestRecordClickWritesEntryForCurrentUser(t *testing.T) {
	history := newFakeHistoryStore()
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, sess := newTestCatalog(t, source, history)

	sess.Login(&model.User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	svc.RecordClick(2)

	require.Equal(t, 1, history.count(7))
	entry := history.entries[0]
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, 2, entry.MovieID)
	assert.NotZero(t, entry.Timestamp)
}

// 最近观看：按时间倒序去重，目录里没有的电影被静默丢弃
func TestHistoryViewDedupesAndOrders(t *testing.T) {
	history := newFakeHistoryStore()
	source := &fakeMovieSource{movies: []model.Movie{
		{ID: 100, Title: "A"},
		{ID: 101, Title: "B"},
		{ID: 102, Title: "C"},
	}}
	svc, sess := newTestCatalog(t, source, history)
	svc.LoadPopularMovies(context.Background())

	sess.Login(&model.User{ID: 7, Name: "Ana", Email: "ana@example.com"})

	for _, e := range []struct {
		ts      int64
		movieID int
	}{
		{3000, 102},
		{2000, 101},
		{2000, 101}, // 同一部电影的更早点击
		{1000, 100},
		{500, 103}, // 不在目录里
	} {
		require.NoError(t, history.Insert(&model.HistoryEntry{UserID: 7, MovieID: e.movieID, Timestamp: e.ts}))
	}

	require.Eventually(t, func() bool {
		return len(svc.HistoryMovies()) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int{102, 101, 100}, movieIDs(svc.HistoryMovies()))
}

func TestHistoryViewCapsAtFifteen(t *testing.T) {
	history := newFakeHistoryStore()
	catalog := make([]model.Movie, 0, 20)
	for i := 1; i <= 20; i++ {
		catalog = append(catalog, model.Movie{ID: i})
	}
	source := &fakeMovieSource{movies: catalog}
	svc, sess := newTestCatalog(t, source, history)
	svc.LoadPopularMovies(context.Background())

	sess.Login(&model.User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	for i := 1; i <= 20; i++ {
		require.NoError(t, history.Insert(&model.HistoryEntry{UserID: 7, MovieID: i, Timestamp: int64(i * 1000)}))
	}

	require.Eventually(t, func() bool {
		return len(svc.HistoryMovies()) == historyViewLimit
	}, 2*time.Second, 10*time.Millisecond)

	// 最新的 15 部，最近点击在前
	want := make([]int, 0, historyViewLimit)
	for i := 20; i > 5; i-- {
		want = append(want, i)
	}
	assert.Equal(t, want, movieIDs(svc.HistoryMovies()))
}

func TestHistoryViewEmptyWhenLoggedOut(t *testing.T) {
	history := newFakeHistoryStore()
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, sess := newTestCatalog(t, source, history)
	svc.LoadPopularMovies(context.Background())

	sess.Login(&model.User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, history.Insert(&model.HistoryEntry{UserID: 7, MovieID: 1}))
	require.Eventually(t, func() bool {
		return len(svc.HistoryMovies()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	sess.Logout()
	require.Eventually(t, func() bool {
		return len(svc.HistoryMovies()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// 切换用户时整个派生视图被替换，不同用户的历史不混合
func TestHistoryViewSwitchesUser(t *testing.T) {
	history := newFakeHistoryStore()
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, sess := newTestCatalog(t, source, history)
	svc.LoadPopularMovies(context.Background())

	require.NoError(t, history.Insert(&model.HistoryEntry{UserID: 7, MovieID: 1, Timestamp: 1000}))
	require.NoError(t, history.Insert(&model.HistoryEntry{UserID: 8, MovieID: 2, Timestamp: 2000}))

	sess.Login(&model.User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	require.Eventually(t, func() bool {
		ids := movieIDs(svc.HistoryMovies())
		return len(ids) == 1 && ids[0] == 1
	}, 2*time.Second, 10*time.Millisecond)

	sess.Login(&model.User{ID: 8, Name: "Bia", Email: "bia@example.com"})
	require.Eventually(t, func() bool {
		ids := movieIDs(svc.HistoryMovies())
		return len(ids) == 1 && ids[0] == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClearHistory(t *testing.T) {
	history := newFakeHistoryStore()
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, sess := newTestCatalog(t, source, history)
	svc.LoadPopularMovies(context.Background())

	sess.Login(&model.User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, history.Insert(&model.HistoryEntry{UserID: 7, MovieID: 1}))
	require.Eventually(t, func() bool {
		return len(svc.HistoryMovies()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.ClearHistory())
	require.Eventually(t, func() bool {
		return len(svc.HistoryMovies()) == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, history.count(7))
}

func TestToggleSearchActive(t *testing.T) {
	source := &fakeMovieSource{movies: testCatalogMovies()}
	svc, _ := newTestCatalog(t, source, newFakeHistoryStore())
	svc.LoadPopularMovies(context.Background())

	svc.ToggleSearchActive()
	assert.True(t, svc.IsSearchActive())
	assert.Equal(t, StateSearchEmptyQuery, svc.DisplayState())

	svc.ToggleSearchActive()
	assert.False(t, svc.IsSearchActive())
	assert.Empty(t, svc.SearchQuery())
}
