package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是错误类别码，前三位即HTTP状态码（40900 → 409）
// 2. Message是返回给调用方的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同类别码的AppError视为同一种错误
// 例如：errors.Is(err, ErrConflict) 对所有409类错误成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Err == nil && t.Code == e.Code && (t.Message == e.Message || isKindSentinel(t))
}

// Kind 错误类别名称（写入响应体的error字段）
func (e *AppError) Kind() string {
	return KindName(e.Code)
}

// HTTPStatus 错误对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（数据库、网络等），统一归为InternalFailure
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Upstream 包装外部服务（图书目录）调用失败
func Upstream(err error, message string) *AppError {
	return &AppError{
		Code:    CodeUpstream,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误类别码
// =========================================
// 规范：前三位为HTTP状态码，后两位预留给细分场景

const (
	CodeInvalidInput = 40000 // 请求字段缺失或格式错误
	CodeUnauthorized = 40100 // 缺少或无法解析的凭证
	CodeForbidden    = 40300 // 已认证但权限不足，或删除受保护资源
	CodeNotFound     = 40400 // 引用的实体不存在
	CodeConflict     = 40900 // 唯一性冲突
	CodeInternal     = 50000 // 存储或其他意外错误
	CodeUpstream     = 50200 // 图书目录服务调用失败
)

// 类别哨兵错误，配合errors.Is按类别判断
var (
	ErrInvalidInput = New(CodeInvalidInput, "Invalid input")
	ErrUnauthorized = New(CodeUnauthorized, "Authentication required")
	ErrForbidden    = New(CodeForbidden, "Forbidden")
	ErrNotFound     = New(CodeNotFound, "Not found")
	ErrConflict     = New(CodeConflict, "Conflict")
	ErrInternal     = New(CodeInternal, "Internal server error")
	ErrUpstream     = New(CodeUpstream, "Upstream service error")
)

func isKindSentinel(e *AppError) bool {
	switch e {
	case ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrInternal, ErrUpstream:
		return true
	}
	return false
}

// KindName 类别码 → 类别名称
func KindName(code int) string {
	switch code / 100 {
	case 400:
		return "InvalidInput"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "NotFound"
	case 409:
		return "Conflict"
	case 502:
		return "UpstreamFailure"
	default:
		return "InternalFailure"
	}
}

// HTTPStatus 类别码 → HTTP状态码
// 上游失败同样以500返回给调用方（不区分、不重试）
func HTTPStatus(code int) int {
	switch code / 100 {
	case 400:
		return http.StatusBadRequest
	case 401:
		return http.StatusUnauthorized
	case 403:
		return http.StatusForbidden
	case 404:
		return http.StatusNotFound
	case 409:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}
