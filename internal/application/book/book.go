package book

import (
	"context"
	"strings"

	"github.com/xiebiao/booknerds/internal/domain/catalog"
	"github.com/xiebiao/booknerds/internal/domain/ranking"
	"github.com/xiebiao/booknerds/internal/domain/review"
)

// BookUseCase 图书查询用例
// 1. 搜索和详情转发给外部目录（可能经过Redis缓存）
// 2. 排行榜只基于本地书评统计，不查询目录
type BookUseCase struct {
	catalog      catalog.Gateway
	reviews      review.Service
	defaultQuery string
}

// NewBookUseCase 创建图书查询用例
// defaultQuery为空时使用catalog.DefaultSearchQuery
func NewBookUseCase(gateway catalog.Gateway, reviews review.Service, defaultQuery string) *BookUseCase {
	if strings.TrimSpace(defaultQuery) == "" {
		defaultQuery = catalog.DefaultSearchQuery
	}
	return &BookUseCase{
		catalog:      gateway,
		reviews:      reviews,
		defaultQuery: defaultQuery,
	}
}

// Search 搜索图书，关键词为空时使用默认关键词
func (uc *BookUseCase) Search(ctx context.Context, query string) ([]BookItem, error) {
	if strings.TrimSpace(query) == "" {
		query = uc.defaultQuery
	}

	books, err := uc.catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	items := make([]BookItem, 0, len(books))
	for _, b := range books {
		items = append(items, toBookItem(b))
	}
	return items, nil
}

// Get 图书详情
func (uc *BookUseCase) Get(ctx context.Context, id string) (*BookItem, error) {
	book, err := uc.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item := toBookItem(*book)
	return &item, nil
}

// TopRated 评分榜（最多10本）
func (uc *BookUseCase) TopRated(ctx context.Context) ([]TopRatedItem, error) {
	books, err := uc.reviews.TopRated(ctx, ranking.DefaultLimit)
	if err != nil {
		return nil, err
	}
	return toTopRated(books), nil
}

// MostRecommended 推荐榜（最多10本）
func (uc *BookUseCase) MostRecommended(ctx context.Context) ([]RecommendedItem, error) {
	books, err := uc.reviews.MostRecommended(ctx, ranking.DefaultLimit)
	if err != nil {
		return nil, err
	}
	return toRecommended(books), nil
}
