package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/booknerds/internal/domain/catalog"
)

// CatalogCache 图书目录缓存（装饰器）
// 1. 实现catalog.Gateway，包装真正的目录客户端
// 2. 只缓存成功结果，上游错误原样返回，不缓存
// 3. Redis不可用时降级为直连上游，只记日志
// 4. Key设计：catalog:search:{query}、catalog:book:{id}
type CatalogCache struct {
	client *redis.Client
	next   catalog.Gateway
	ttl    time.Duration
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(client *redis.Client, next catalog.Gateway, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, next: next, ttl: ttl}
}

// cachedBook 缓存中的JSON结构
type cachedBook struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Thumbnail   *string `json:"thumbnail"`
	Description string  `json:"description"`
}

func searchKey(query string) string {
	return fmt.Sprintf("catalog:search:%s", strings.ToLower(strings.TrimSpace(query)))
}

func bookKey(id string) string {
	return fmt.Sprintf("catalog:book:%s", id)
}

// Search 先查缓存，未命中再查上游
func (c *CatalogCache) Search(ctx context.Context, query string) ([]catalog.Book, error) {
	key := searchKey(query)

	var cached []cachedBook
	if c.load(ctx, key, &cached) {
		books := make([]catalog.Book, 0, len(cached))
		for _, b := range cached {
			books = append(books, fromCached(b))
		}
		return books, nil
	}

	books, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	entries := make([]cachedBook, 0, len(books))
	for _, b := range books {
		entries = append(entries, toCached(b))
	}
	c.store(ctx, key, entries)
	return books, nil
}

// Get 先查缓存，未命中再查上游
func (c *CatalogCache) Get(ctx context.Context, id string) (*catalog.Book, error) {
	key := bookKey(id)

	var cached cachedBook
	if c.load(ctx, key, &cached) {
		book := fromCached(cached)
		return &book, nil
	}

	book, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, toCached(*book))
	return book, nil
}

// load 读取缓存，未命中或出错返回false
func (c *CatalogCache) load(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("读取目录缓存失败", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		zap.L().Warn("目录缓存数据损坏", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zap.L().Warn("写入目录缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func toCached(b catalog.Book) cachedBook {
	return cachedBook{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Thumbnail:   b.Thumbnail,
		Description: b.Description,
	}
}

func fromCached(b cachedBook) catalog.Book {
	return catalog.Book{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Thumbnail:   b.Thumbnail,
		Description: b.Description,
	}
}
