package account

import (
	"context"

	"github.com/xiebiao/booknerds/internal/domain/account"
)

// LoginUseCase 登录用例
// 每次请求都重新携带凭证，这里只做一次校验并返回账号信息，不签发令牌
type LoginUseCase struct {
	auth *account.Authenticator
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(auth *account.Authenticator) *LoginUseCase {
	return &LoginUseCase{auth: auth}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	acc, err := uc.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Message: "Login successful",
		User:    toView(acc),
	}, nil
}
