// Package catalog 外部图书目录
//
// 本服务不保存图书数据，搜索和详情都来自外部目录（Google Books）。
// Gateway接口定义在这里，实现在infrastructure/catalog。
package catalog

import (
	"context"
)

// Book 归一化后的图书摘要
type Book struct {
	ID          string
	Title       string
	Author      string  // 多个作者以", "连接，缺失为Unknown
	Thumbnail   *string // 缺失为nil（JSON中为null）
	Description string  // 缺失为"No description available"
}

// 归一化默认值
const (
	UnknownAuthor      = "Unknown"
	NoDescription      = "No description available"
	AuthorSeparator    = ", "
	DefaultSearchQuery = "javascript"
)

// Gateway 图书目录网关
// 调用失败统一返回UpstreamFailure类错误，不重试
type Gateway interface {
	// Search 按关键词搜索，无结果返回空切片
	Search(ctx context.Context, query string) ([]Book, error)

	// Get 按目录ID查询详情
	Get(ctx context.Context, id string) (*Book, error)
}
