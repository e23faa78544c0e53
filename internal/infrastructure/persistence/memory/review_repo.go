package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/ranking"
	"github.com/xiebiao/booknerds/internal/domain/review"
)

// ReviewRepository 书评仓储（内存实现）
type ReviewRepository struct {
	s *Store
}

var _ review.Repository = (*ReviewRepository)(nil)

// Create 写锁内检查账号存在，等价于SQL外键约束
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[rv.UserID]; !ok {
		return account.ErrAccountNotFound
	}

	rv.ID = r.s.nextRevID
	r.s.nextRevID++
	rv.CreatedAt = r.s.stamp()

	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r *ReviewRepository) ListAll(ctx context.Context) ([]*review.Entry, error) {
	return r.list(ctx, func(*review.Review) bool { return true })
}

func (r *ReviewRepository) ListByBook(ctx context.Context, bookID string) ([]*review.Entry, error) {
	return r.list(ctx, func(rv *review.Review) bool { return rv.BookID == bookID })
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID uint) ([]*review.Entry, error) {
	return r.list(ctx, func(rv *review.Review) bool { return rv.UserID == userID })
}

func (r *ReviewRepository) list(ctx context.Context, keep func(*review.Review) bool) ([]*review.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.collect(keep), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.reviews, id)
	return nil
}

// BookStats 按图书聚合，书名取字典序最大的一条（与SQL实现的MAX(book_title)一致）
func (r *ReviewRepository) BookStats(ctx context.Context) ([]ranking.BookStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byBook := make(map[string]*ranking.BookStats)
	for _, rv := range r.s.reviews {
		st, ok := byBook[rv.BookID]
		if !ok {
			st = &ranking.BookStats{BookID: rv.BookID}
			byBook[rv.BookID] = st
		}
		st.ReviewCount++
		st.RatingSum += rv.Rating
		if rv.Recommended {
			st.RecommendedCount++
		}
		if rv.BookTitle > st.BookTitle {
			st.BookTitle = rv.BookTitle
		}
	}

	out := make([]ranking.BookStats, 0, len(byBook))
	for _, st := range byBook {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out, nil
}
