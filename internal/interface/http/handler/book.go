package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/booknerds/internal/application/book"
	"github.com/xiebiao/booknerds/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	bookUseCase *appbook.BookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(bookUseCase *appbook.BookUseCase) *BookHandler {
	return &BookHandler{bookUseCase: bookUseCase}
}

// Search 搜索图书
// @Summary      搜索图书
// @Description  转发到外部图书目录；q为空时使用默认关键词
// @Tags         图书
// @Produce      json
// @Param        q query string false "关键词"
// @Success      200 {array} appbook.BookItem
// @Failure      500 {object} response.ErrorBody "目录服务失败"
// @Router       /api/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	books, err := h.bookUseCase.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} appbook.BookItem
// @Failure      500 {object} response.ErrorBody "目录服务失败"
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.bookUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, book)
}

// TopRated 评分榜
// @Summary      评分榜
// @Description  按平均评分降序，最多10本
// @Tags         图书
// @Produce      json
// @Success      200 {array} appbook.TopRatedItem
// @Router       /api/books/top-rated [get]
func (h *BookHandler) TopRated(c *gin.Context) {
	books, err := h.bookUseCase.TopRated(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// MostRecommended 推荐榜
// @Summary      推荐榜
// @Description  按推荐比例降序，最多10本
// @Tags         图书
// @Produce      json
// @Success      200 {array} appbook.RecommendedItem
// @Router       /api/books/most-recommended [get]
func (h *BookHandler) MostRecommended(c *gin.Context) {
	books, err := h.bookUseCase.MostRecommended(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}
