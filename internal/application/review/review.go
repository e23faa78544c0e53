package review

import (
	"context"

	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/pkg/metrics"
	"github.com/xiebiao/booknerds/pkg/mq"
)

// ReviewUseCase 书评用例
// 1. 创建：校验 → 确认账号存在 → 落库 → 指标 → 事件
// 2. 查询：全部 / 按书 / 按账号，最新在前
// 3. 删除：管理员操作，权限由中间件校验
type ReviewUseCase struct {
	reviews   review.Service
	publisher mq.EventPublisher
}

// NewReviewUseCase 创建书评用例
func NewReviewUseCase(reviews review.Service, publisher mq.EventPublisher) *ReviewUseCase {
	return &ReviewUseCase{
		reviews:   reviews,
		publisher: publisher,
	}
}

// Create 创建书评
func (uc *ReviewUseCase) Create(ctx context.Context, req CreateReviewRequest) (*CreateReviewResponse, error) {
	r, err := uc.reviews.CreateReview(ctx, review.NewReview{
		UserID:      req.UserID,
		BookID:      req.BookID,
		BookTitle:   req.BookTitle,
		ReviewText:  req.ReviewText,
		Rating:      req.Rating,
		Recommended: req.Recommended,
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.ReviewsCreatedTotal)
	mq.PublishQuietly(ctx, uc.publisher, mq.KeyReviewCreated, reviewEvent{
		ReviewID:    r.ID,
		UserID:      r.UserID,
		BookID:      r.BookID,
		Rating:      r.Rating,
		Recommended: r.Recommended,
	})

	return &CreateReviewResponse{
		Message:  "Review added successfully",
		ReviewID: r.ID,
	}, nil
}

// ListAll 全部书评
func (uc *ReviewUseCase) ListAll(ctx context.Context) ([]ReviewItem, error) {
	entries, err := uc.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toItems(entries), nil
}

// ListByBook 某本书的书评
func (uc *ReviewUseCase) ListByBook(ctx context.Context, bookID string) ([]ReviewItem, error) {
	entries, err := uc.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return toItems(entries), nil
}

// ListByUser 某个账号的书评
func (uc *ReviewUseCase) ListByUser(ctx context.Context, userID uint) ([]ReviewItem, error) {
	entries, err := uc.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toItems(entries), nil
}

// Delete 删除书评（不存在时同样成功）
func (uc *ReviewUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}

	metrics.IncCounter(metrics.ReviewsDeletedTotal)
	mq.PublishQuietly(ctx, uc.publisher, mq.KeyReviewDeleted, reviewEvent{ReviewID: id})
	return nil
}
