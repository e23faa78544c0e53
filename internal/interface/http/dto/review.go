package dto

// CreateReviewRequest 创建书评
type CreateReviewRequest struct {
	UserID      uint   `json:"userId" example:"2"`
	BookID      string `json:"bookId" example:"zyTCAlFPjgYC"`
	BookTitle   string `json:"bookTitle" example:"The Google Story"`
	ReviewText  string `json:"reviewText" example:"Great read"`
	Rating      int    `json:"rating" example:"8"`
	Recommended bool   `json:"recommended" example:"true"`
}
