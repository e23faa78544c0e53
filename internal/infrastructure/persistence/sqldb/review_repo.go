package sqldb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/ranking"
	"github.com/xiebiao/booknerds/internal/domain/review"
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
)

// reviewRepository 书评仓储实现（GORM）
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// entryColumns 列表查询的列（书评 + 用户名）
const entryColumns = "reviews.id, reviews.user_id, reviews.book_id, reviews.book_title, " +
	"reviews.review_text, reviews.rating, reviews.recommended, reviews.created_at, accounts.username"

// entryRow 联表查询结果
type entryRow struct {
	ID          uint
	UserID      uint
	BookID      string
	BookTitle   string
	ReviewText  string
	Rating      int
	Recommended bool
	CreatedAt   time.Time
	Username    string
}

// statsRow 聚合查询结果
type statsRow struct {
	BookID           string
	BookTitle        string
	ReviewCount      int
	RatingSum        int
	RecommendedCount int
}

// Create 创建书评
// 账号在校验之后被并发删除时，外键约束失败，同样返回账号不存在
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		UserID:      rv.UserID,
		BookID:      rv.BookID,
		BookTitle:   rv.BookTitle,
		ReviewText:  rv.ReviewText,
		Rating:      rv.Rating,
		Recommended: rv.Recommended,
	}

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return account.ErrAccountNotFound
		}
		return apperrors.Wrap(err, "创建书评失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	return nil
}

func (r *reviewRepository) ListAll(ctx context.Context) ([]*review.Entry, error) {
	return r.list(ctx, nil)
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID string) ([]*review.Entry, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("reviews.book_id = ?", bookID)
	})
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]*review.Entry, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("reviews.user_id = ?", userID)
	})
}

// list 联表查询，最新在前（时间相同按ID降序）
func (r *reviewRepository) list(ctx context.Context, filter func(*gorm.DB) *gorm.DB) ([]*review.Entry, error) {
	query := conn(ctx, r.db).
		Table("reviews").
		Select(entryColumns).
		Joins("JOIN accounts ON accounts.id = reviews.user_id")
	if filter != nil {
		query = filter(query)
	}

	var rows []entryRow
	if err := query.Order("reviews.created_at DESC, reviews.id DESC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询书评失败")
	}

	out := make([]*review.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, &review.Entry{
			Review: review.Review{
				ID:          row.ID,
				UserID:      row.UserID,
				BookID:      row.BookID,
				BookTitle:   row.BookTitle,
				ReviewText:  row.ReviewText,
				Rating:      row.Rating,
				Recommended: row.Recommended,
				CreatedAt:   row.CreatedAt,
			},
			Username: row.Username,
		})
	}
	return out, nil
}

// Delete 删除书评，记录不存在时不报错
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	if err := conn(ctx, r.db).Delete(&ReviewModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除书评失败")
	}
	return nil
}

// BookStats 按book_id聚合
// CASE WHEN在MySQL（tinyint）和PostgreSQL（boolean）下都成立
func (r *reviewRepository) BookStats(ctx context.Context) ([]ranking.BookStats, error) {
	var rows []statsRow
	err := conn(ctx, r.db).
		Table("reviews").
		Select("book_id, MAX(book_title) AS book_title, COUNT(*) AS review_count, " +
			"SUM(rating) AS rating_sum, " +
			"SUM(CASE WHEN recommended THEN 1 ELSE 0 END) AS recommended_count").
		Group("book_id").
		Order("book_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计书评失败")
	}

	out := make([]ranking.BookStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.BookStats{
			BookID:           row.BookID,
			BookTitle:        row.BookTitle,
			ReviewCount:      row.ReviewCount,
			RatingSum:        row.RatingSum,
			RecommendedCount: row.RecommendedCount,
		})
	}
	return out, nil
}
