// Package memory 进程内存储
//
// 实现account.Repository和review.Repository，用于本地开发（database.driver=memory）和测试。
// 账号和书评共用一把读写锁，级联删除在同一把写锁内完成，效果等同一个事务。
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/review"
)

// Store 内存数据集
type Store struct {
	mu sync.RWMutex

	accounts   map[uint]*account.Account
	usernames  map[string]uint // username -> id，模拟唯一索引
	reviews    map[uint]*review.Review
	nextUserID uint
	nextRevID  uint
	lastStamp  time.Time

	now func() time.Time
}

// NewStore 创建空的内存存储
func NewStore() *Store {
	return &Store{
		accounts:   make(map[uint]*account.Account),
		usernames:  make(map[string]uint),
		reviews:    make(map[uint]*review.Review),
		nextUserID: 1,
		nextRevID:  1,
		now:        time.Now,
	}
}

// Accounts 账号仓储视图
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{s: s}
}

// Reviews 书评仓储视图
func (s *Store) Reviews() *ReviewRepository {
	return &ReviewRepository{s: s}
}

// stamp 生成单调不减的时间戳（调用方持有写锁）
func (s *Store) stamp() time.Time {
	t := s.now().UTC()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	s.lastStamp = t
	return t
}

// entry 书评 + 用户名（调用方持有读锁）
func (s *Store) entry(r *review.Review) *review.Entry {
	e := &review.Entry{Review: *r}
	if acc, ok := s.accounts[r.UserID]; ok {
		e.Username = acc.Username
	}
	return e
}

// collect 过滤并按创建时间、ID降序排列（调用方持有读锁）
func (s *Store) collect(keep func(*review.Review) bool) []*review.Entry {
	out := make([]*review.Entry, 0)
	for _, r := range s.reviews {
		if keep(r) {
			out = append(out, s.entry(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
