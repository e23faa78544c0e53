package account

import (
	"context"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/pkg/metrics"
	"github.com/xiebiao/booknerds/pkg/mq"
)

// RegisterUseCase 注册用例
// 1. 调用领域服务创建访客账号
// 2. 记录注册指标
// 3. 发布account.registered事件（失败不影响注册结果）
type RegisterUseCase struct {
	accounts  account.Service
	publisher mq.EventPublisher
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(accounts account.Service, publisher mq.EventPublisher) *RegisterUseCase {
	return &RegisterUseCase{
		accounts:  accounts,
		publisher: publisher,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	acc, err := uc.accounts.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.AccountsRegisteredTotal)
	mq.PublishQuietly(ctx, uc.publisher, mq.KeyAccountRegistered, toEvent(acc))

	return &AuthResponse{
		Message: "User registered successfully",
		User:    toView(acc),
	}, nil
}
