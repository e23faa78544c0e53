// Package ranking 根据书评统计计算图书排行
//
// 纯函数，不访问存储：调用方先通过review.Repository.BookStats取得按图书聚合的统计，
// 再交给TopRated / MostRecommended排序截断。
package ranking

import (
	"math"
	"sort"
)

// DefaultLimit 排行榜默认条数
const DefaultLimit = 10

// UnknownAuthor 排行榜不回查图书目录，作者统一为Unknown
const UnknownAuthor = "Unknown"

// BookStats 单本图书的书评统计
type BookStats struct {
	BookID           string
	BookTitle        string
	ReviewCount      int
	RatingSum        int
	RecommendedCount int
}

// TopRatedBook 评分榜条目
type TopRatedBook struct {
	ID          string
	Title       string
	Author      string
	Thumbnail   *string
	AvgRating   float64
	ReviewCount int
}

// RecommendedBook 推荐榜条目
type RecommendedBook struct {
	ID               string
	Title            string
	Author           string
	Thumbnail        *string
	RecommendCount   int
	ReviewCount      int
	RecommendPercent int
}

// TopRated 评分榜
// 排序：平均分降序 → 书评数降序 → 图书ID升序；limit<=0时使用DefaultLimit
func TopRated(stats []BookStats, limit int) []TopRatedBook {
	ranked := eligible(stats)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		// 交叉相乘比较平均分，避免浮点误差
		if l, r := a.RatingSum*b.ReviewCount, b.RatingSum*a.ReviewCount; l != r {
			return l > r
		}
		return tieBreak(a, b)
	})

	ranked = truncate(ranked, limit)
	out := make([]TopRatedBook, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, TopRatedBook{
			ID:          s.BookID,
			Title:       s.BookTitle,
			Author:      UnknownAuthor,
			AvgRating:   float64(s.RatingSum) / float64(s.ReviewCount),
			ReviewCount: s.ReviewCount,
		})
	}
	return out
}

// MostRecommended 推荐榜
// 排序：推荐比例降序 → 书评数降序 → 图书ID升序；百分比四舍五入到整数
func MostRecommended(stats []BookStats, limit int) []RecommendedBook {
	ranked := eligible(stats)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if l, r := a.RecommendedCount*b.ReviewCount, b.RecommendedCount*a.ReviewCount; l != r {
			return l > r
		}
		return tieBreak(a, b)
	})

	ranked = truncate(ranked, limit)
	out := make([]RecommendedBook, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, RecommendedBook{
			ID:               s.BookID,
			Title:            s.BookTitle,
			Author:           UnknownAuthor,
			RecommendCount:   s.RecommendedCount,
			ReviewCount:      s.ReviewCount,
			RecommendPercent: percent(s.RecommendedCount, s.ReviewCount),
		})
	}
	return out
}

// eligible 过滤掉没有书评的条目，返回副本，不修改调用方的切片
func eligible(stats []BookStats) []BookStats {
	out := make([]BookStats, 0, len(stats))
	for _, s := range stats {
		if s.ReviewCount >= 1 {
			out = append(out, s)
		}
	}
	return out
}

func tieBreak(a, b BookStats) bool {
	if a.ReviewCount != b.ReviewCount {
		return a.ReviewCount > b.ReviewCount
	}
	return a.BookID < b.BookID
}

func truncate(stats []BookStats, limit int) []BookStats {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
