package account

import (
	"github.com/xiebiao/booknerds/internal/domain/account"
)

// =========================================
// 应用层DTO
// =========================================
// 不返回password字段

// UserView 账号视图
type UserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResponse 登录/注册响应
type AuthResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

// AdminCheckResponse 管理员检查响应
type AdminCheckResponse struct {
	IsAdmin bool   `json:"isAdmin"`
	Message string `json:"message"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Password string
}

// LoginRequest 登录请求（来自Basic认证头）
type LoginRequest struct {
	Username string
	Password string
}

// CreateUserRequest 管理员创建账号
type CreateUserRequest struct {
	Username string
	Password string
	Role     string // 为空时按guest处理
}

// accountEvent 账号事件载荷
type accountEvent struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toView(a *account.Account) UserView {
	return UserView{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Privilege.String(),
	}
}

func toEvent(a *account.Account) accountEvent {
	return accountEvent{ID: a.ID, Username: a.Username, Role: a.Privilege.String()}
}
