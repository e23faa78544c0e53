package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/booknerds/internal/application/review"
	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/internal/interface/http/dto"
	"github.com/xiebiao/booknerds/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	reviewUseCase *appreview.ReviewUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(reviewUseCase *appreview.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{reviewUseCase: reviewUseCase}
}

// ListAll 全部书评（最新在前）
// @Summary      全部书评
// @Tags         书评
// @Produce      json
// @Success      200 {array} appreview.ReviewItem
// @Router       /api/reviews [get]
func (h *ReviewHandler) ListAll(c *gin.Context) {
	items, err := h.reviewUseCase.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// ListByBook 某本书的书评
// @Summary      某本书的书评
// @Tags         书评
// @Produce      json
// @Param        bookId path string true "图书ID"
// @Success      200 {array} appreview.ReviewItem
// @Router       /api/reviews/book/{bookId} [get]
func (h *ReviewHandler) ListByBook(c *gin.Context) {
	items, err := h.reviewUseCase.ListByBook(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// ListByUser 某个账号的书评
// @Summary      某个账号的书评
// @Tags         书评
// @Produce      json
// @Param        userId path int true "账号ID"
// @Success      200 {array} appreview.ReviewItem
// @Failure      400 {object} response.ErrorBody
// @Router       /api/reviews/user/{userId} [get]
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	userID, err := paramID(c, "userId", ErrInvalidUserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.reviewUseCase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Create 发表书评
// @Summary      发表书评
// @Tags         书评
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateReviewRequest true "书评"
// @Success      201 {object} appreview.CreateReviewResponse
// @Failure      400 {object} response.ErrorBody "字段缺失"
// @Failure      404 {object} response.ErrorBody "账号不存在"
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, review.ErrMissingField)
		return
	}

	result, err := h.reviewUseCase.Create(c.Request.Context(), appreview.CreateReviewRequest{
		UserID:      req.UserID,
		BookID:      req.BookID,
		BookTitle:   req.BookTitle,
		ReviewText:  req.ReviewText,
		Rating:      req.Rating,
		Recommended: req.Recommended,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Delete 删除书评（管理员）
// @Summary      删除书评
// @Tags         书评
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "书评ID"
// @Success      200 {object} response.MessageBody
// @Failure      401 {object} response.ErrorBody
// @Failure      403 {object} response.ErrorBody
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id", review.ErrInvalidReviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.reviewUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Review deleted successfully")
}
