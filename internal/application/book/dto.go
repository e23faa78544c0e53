package book

import (
	"github.com/xiebiao/booknerds/internal/domain/catalog"
	"github.com/xiebiao/booknerds/internal/domain/ranking"
)

// BookItem 图书（搜索结果与详情共用）
type BookItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Thumbnail   *string `json:"thumbnail"`
	Description string  `json:"description"`
}

// TopRatedItem 评分榜条目
type TopRatedItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Thumbnail   *string `json:"thumbnail"`
	AvgRating   float64 `json:"avgRating"`
	ReviewCount int     `json:"reviewCount"`
}

// RecommendedItem 推荐榜条目
type RecommendedItem struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	Thumbnail        *string `json:"thumbnail"`
	RecommendCount   int     `json:"recommendCount"`
	ReviewCount      int     `json:"reviewCount"`
	RecommendPercent int     `json:"recommendPercent"`
}

func toBookItem(b catalog.Book) BookItem {
	return BookItem{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Thumbnail:   b.Thumbnail,
		Description: b.Description,
	}
}

func toTopRated(books []ranking.TopRatedBook) []TopRatedItem {
	items := make([]TopRatedItem, 0, len(books))
	for _, b := range books {
		items = append(items, TopRatedItem{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Thumbnail:   b.Thumbnail,
			AvgRating:   b.AvgRating,
			ReviewCount: b.ReviewCount,
		})
	}
	return items
}

func toRecommended(books []ranking.RecommendedBook) []RecommendedItem {
	items := make([]RecommendedItem, 0, len(books))
	for _, b := range books {
		items = append(items, RecommendedItem{
			ID:               b.ID,
			Title:            b.Title,
			Author:           b.Author,
			Thumbnail:        b.Thumbnail,
			RecommendCount:   b.RecommendCount,
			ReviewCount:      b.ReviewCount,
			RecommendPercent: b.RecommendPercent,
		})
	}
	return items
}
