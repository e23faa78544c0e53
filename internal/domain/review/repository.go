package review

import (
	"context"

	"github.com/xiebiao/booknerds/internal/domain/ranking"
)

// Repository 书评仓储接口
// 所有列表按创建时间降序、ID降序（最新在前）
type Repository interface {
	// Create 创建书评，回填ID和CreatedAt
	// 所属账号不存在时返回account.ErrAccountNotFound
	Create(ctx context.Context, review *Review) error

	// ListAll 全部书评（带用户名）
	ListAll(ctx context.Context) ([]*Entry, error)

	// ListByBook 某本书的书评
	ListByBook(ctx context.Context, bookID string) ([]*Entry, error)

	// ListByUser 某个账号的书评
	ListByUser(ctx context.Context, userID uint) ([]*Entry, error)

	// Delete 删除书评，ID不存在时不报错
	Delete(ctx context.Context, id uint) error

	// BookStats 按图书聚合：书评数、评分和、推荐数、书名
	BookStats(ctx context.Context) ([]ranking.BookStats, error)
}
