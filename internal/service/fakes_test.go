package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/remote"
	"github.com/user/cinebox/internal/stream"
)

// fakeMovieSource 可配置的电影目录来源
type fakeMovieSource struct {
	mu     sync.Mutex
	movies []model.Movie
	err    error
	calls  int
}

func (f *fakeMovieSource) PopularMovies(ctx context.Context) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func (f *fakeMovieSource) set(movies []model.Movie, err error) {
	f.mu.Lock()
	f.movies = movies
	f.err = err
	f.mu.Unlock()
}

// fakeHistoryStore 内存版点击记录存储，行为对齐仓库实现（倒序查询 + 变更信号）
type fakeHistoryStore struct {
	mu         sync.Mutex
	entries    []*model.HistoryEntry
	nextID     int64
	failInsert bool
	changes    *stream.Broadcaster
}

func newFakeHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{changes: stream.NewBroadcaster()}
}

func (f *fakeHistoryStore) Insert(entry *model.HistoryEntry) error {
	f.mu.Lock()
	if f.failInsert {
		f.mu.Unlock()
		return errors.New("insert failed")
	}
	f.nextID++
	entry.ID = f.nextID
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	f.entries = append(f.entries, entry)
	f.mu.Unlock()
	f.changes.Notify()
	return nil
}

func (f *fakeHistoryStore) ListByUser(userID int64) ([]*model.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.HistoryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp > result[j].Timestamp
	})
	return result, nil
}

func (f *fakeHistoryStore) ClearByUser(userID int64) error {
	f.mu.Lock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	f.mu.Unlock()
	f.changes.Notify()
	return nil
}

func (f *fakeHistoryStore) Changes() (<-chan struct{}, func()) {
	return f.changes.Subscribe()
}

func (f *fakeHistoryStore) count(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.UserID == userID {
			n++
		}
	}
	return n
}

// fakeAccountAPI 可配置的远程账号服务，记录调用次数
type fakeAccountAPI struct {
	mu            sync.Mutex
	loginResp     *remote.LoginResponse
	loginErr      error
	registerResp  *remote.RegisterResponse
	registerErr   error
	loginCalls    int
	registerCalls int
}

func (f *fakeAccountAPI) Login(ctx context.Context, email, password string) (*remote.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAccountAPI) Register(ctx context.Context, name, email, password string) (*remote.RegisterResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerResp, nil
}

// fakeUserStore 内存版用户存储
type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) Upsert(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) FindByEmailAndPassword(email, password string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.Password == password {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) EmailExists(email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateAvatar(userID int64, pexelsID *int, url *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.AvatarPexelsID = pexelsID
		u.AvatarURL = url
	}
	return nil
}

// fakePhotoSource 按查询词配置结果或错误
type fakePhotoSource struct {
	mu      sync.Mutex
	results map[string][]model.Avatar
	errs    map[string]error
	calls   map[string]int
}

func newFakePhotoSource() *fakePhotoSource {
	return &fakePhotoSource{
		results: make(map[string][]model.Avatar),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (f *fakePhotoSource) SearchPhotos(ctx context.Context, query string, perPage int, orientation string) ([]model.Avatar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[query]++
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}
