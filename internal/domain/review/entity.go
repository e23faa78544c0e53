package review

import (
	"strings"
	"time"
)

// Review 书评实体
// 设计说明：
// 1. BookID是外部图书目录的ID（不透明字符串），本地不保存图书
// 2. BookTitle冗余存储，目录服务不可用时书评仍可展示
// 3. CreatedAt由存储层赋值，按插入顺序单调不减
type Review struct {
	ID          uint
	UserID      uint
	BookID      string
	BookTitle   string
	ReviewText  string
	Rating      int // 约定1-10，不做范围校验
	Recommended bool
	CreatedAt   time.Time
}

// Entry 列表展示用：书评 + 作者用户名
type Entry struct {
	Review
	Username string
}

// NewReview 创建书评的输入
// 零值表示字段缺失（评分0同样视为缺失）
type NewReview struct {
	UserID      uint
	BookID      string
	BookTitle   string
	ReviewText  string
	Rating      int
	Recommended bool
}

// Validate 必填字段校验
func (n NewReview) Validate() error {
	if n.UserID == 0 ||
		strings.TrimSpace(n.BookID) == "" ||
		strings.TrimSpace(n.BookTitle) == "" ||
		strings.TrimSpace(n.ReviewText) == "" ||
		n.Rating == 0 {
		return ErrMissingField
	}
	return nil
}

// Build 转换为待持久化的实体
func (n NewReview) Build() *Review {
	return &Review{
		UserID:      n.UserID,
		BookID:      strings.TrimSpace(n.BookID),
		BookTitle:   n.BookTitle,
		ReviewText:  n.ReviewText,
		Rating:      n.Rating,
		Recommended: n.Recommended,
	}
}
