package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
	"go.uber.org/zap"
)

// RequestIDKey 请求ID在gin.Context中的键（由日志中间件写入）
const RequestIDKey = "request_id"

// ErrorBody 错误响应结构
// 设计说明：
// 1. Error是错误类别名称（InvalidInput / Unauthorized / ...），客户端按类别判断
// 2. Message是用户友好的提示信息
// 3. HTTP状态码由错误类别决定，不再统一返回200
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageBody 仅包含提示信息的成功响应
type MessageBody struct {
	Message string `json:"message"`
}

// Success 成功响应（200），data原样序列化（数组或对象）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 只返回message字段的成功响应
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := reviewService.CreateReview(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只进日志，不返回给客户端
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(appErr.HTTPStatus(), ErrorBody{
		Error:   appErr.Kind(),
		Message: appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), ErrorBody{
		Error:   apperrors.KindName(code),
		Message: message,
	})
}

// AbortWithError 中间件中使用：写入错误响应并终止后续处理
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
