package review

import (
	"github.com/xiebiao/booknerds/internal/domain/review"
)

// TimestampLayout 书评时间格式
const TimestampLayout = "2006-01-02 15:04:05"

// CreateReviewRequest 创建书评请求
type CreateReviewRequest struct {
	UserID      uint
	BookID      string
	BookTitle   string
	ReviewText  string
	Rating      int
	Recommended bool
}

// CreateReviewResponse 创建书评响应
type CreateReviewResponse struct {
	Message  string `json:"message"`
	ReviewID uint   `json:"reviewId"`
}

// ReviewItem 书评列表项
type ReviewItem struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	BookID      string `json:"bookId"`
	BookTitle   string `json:"bookTitle"`
	ReviewText  string `json:"reviewText"`
	Rating      int    `json:"rating"`
	Recommended bool   `json:"recommended"`
	Timestamp   string `json:"timestamp"`
}

// reviewEvent 书评事件载荷
type reviewEvent struct {
	ReviewID    uint   `json:"reviewId"`
	UserID      uint   `json:"userId,omitempty"`
	BookID      string `json:"bookId,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	Recommended bool   `json:"recommended,omitempty"`
}

func toItems(entries []*review.Entry) []ReviewItem {
	items := make([]ReviewItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ReviewItem{
			ID:          e.ID,
			Username:    e.Username,
			BookID:      e.BookID,
			BookTitle:   e.BookTitle,
			ReviewText:  e.ReviewText,
			Rating:      e.Rating,
			Recommended: e.Recommended,
			Timestamp:   e.CreatedAt.UTC().Format(TimestampLayout),
		})
	}
	return items
}
