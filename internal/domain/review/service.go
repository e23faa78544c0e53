package review

import (
	"context"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/ranking"
)

// Service 书评领域服务
type Service interface {
	// CreateReview 创建书评
	// 必填字段缺失返回ErrMissingField，账号不存在返回account.ErrAccountNotFound，出错时不落库
	CreateReview(ctx context.Context, input NewReview) (*Review, error)

	ListAll(ctx context.Context) ([]*Entry, error)
	ListByBook(ctx context.Context, bookID string) ([]*Entry, error)
	ListByUser(ctx context.Context, userID uint) ([]*Entry, error)

	// DeleteReview 删除书评（管理员），不存在时不报错
	DeleteReview(ctx context.Context, id uint) error

	// TopRated 评分榜
	TopRated(ctx context.Context, limit int) ([]ranking.TopRatedBook, error)

	// MostRecommended 推荐榜
	MostRecommended(ctx context.Context, limit int) ([]ranking.RecommendedBook, error)
}

type service struct {
	repo     Repository
	accounts account.Repository
}

// NewService 创建书评服务
func NewService(repo Repository, accounts account.Repository) Service {
	return &service{repo: repo, accounts: accounts}
}

func (s *service) CreateReview(ctx context.Context, input NewReview) (*Review, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// 先确认账号存在，给出明确的NotFound
	// 存储层的外键约束兜底检查与删除账号并发的情况
	if _, err := s.accounts.FindByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	r := input.Build()
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListAll(ctx context.Context) ([]*Entry, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListByBook(ctx context.Context, bookID string) ([]*Entry, error) {
	return s.repo.ListByBook(ctx, bookID)
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]*Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) DeleteReview(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidReviewID
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) TopRated(ctx context.Context, limit int) ([]ranking.TopRatedBook, error) {
	stats, err := s.repo.BookStats(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.TopRated(stats, limit), nil
}

func (s *service) MostRecommended(ctx context.Context, limit int) ([]ranking.RecommendedBook, error) {
	stats, err := s.repo.BookStats(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.MostRecommended(stats, limit), nil
}
