package account

import (
	"context"
	"errors"
	"strings"
)

// Authenticator 凭证校验
// 只负责“这组用户名/密码是谁、有没有管理员权限”，HTTP头解析在middleware中完成
type Authenticator struct {
	repo       Repository
	breakGlass BreakGlassPolicy
}

// NewAuthenticator 创建凭证校验器
func NewAuthenticator(repo Repository, breakGlass BreakGlassPolicy) *Authenticator {
	return &Authenticator{repo: repo, breakGlass: breakGlass}
}

// Authenticate 校验用户名和密码
// 不匹配返回ErrInvalidCredentials，存储错误原样返回
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMalformedCredentials
	}

	acc, err := a.repo.FindByCredentials(ctx, username, password)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// AuthorizeAdmin 校验管理员权限
// 返回：
//   - 凭证为空：ErrMalformedCredentials（401）
//   - 凭证不匹配：ErrInvalidCredentials（401）
//   - 凭证正确但不是管理员：ErrAdminRequired（403）
func (a *Authenticator) AuthorizeAdmin(ctx context.Context, username, password string) (*Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMalformedCredentials
	}

	if a.breakGlass.Allows(username, password) {
		return a.breakGlass.Account(), nil
	}

	acc, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if !acc.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return acc, nil
}
