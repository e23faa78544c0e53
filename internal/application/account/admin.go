package account

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/pkg/mq"
)

// AdminUseCase 账号管理用例（管理员）
// 权限校验在HTTP中间件完成，这里只做编排
type AdminUseCase struct {
	accounts  account.Service
	publisher mq.EventPublisher
}

// NewAdminUseCase 创建账号管理用例
func NewAdminUseCase(accounts account.Service, publisher mq.EventPublisher) *AdminUseCase {
	return &AdminUseCase{
		accounts:  accounts,
		publisher: publisher,
	}
}

// ListUsers 账号列表（按ID升序）
func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]UserView, error) {
	accounts, err := uc.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]UserView, 0, len(accounts))
	for _, a := range accounts {
		list = append(list, toView(a))
	}
	return list, nil
}

// CreateUser 创建指定角色的账号
func (uc *AdminUseCase) CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	privilege := account.PrivilegeGuest
	if strings.TrimSpace(req.Role) != "" {
		p, err := account.ParsePrivilege(req.Role)
		if err != nil {
			return nil, err
		}
		privilege = p
	}

	acc, err := uc.accounts.CreateAccount(ctx, req.Username, req.Password, privilege)
	if err != nil {
		return nil, err
	}

	mq.PublishQuietly(ctx, uc.publisher, mq.KeyAccountRegistered, toEvent(acc))

	view := toView(acc)
	return &view, nil
}

// ChangeRole 修改角色
func (uc *AdminUseCase) ChangeRole(ctx context.Context, id uint, role string) (*UserView, error) {
	privilege, err := account.ParsePrivilege(role)
	if err != nil {
		return nil, err
	}

	acc, err := uc.accounts.ChangePrivilege(ctx, id, privilege)
	if err != nil {
		return nil, err
	}

	zap.L().Info("账号角色已修改", zap.Uint("user_id", id), zap.String("role", acc.Privilege.String()))

	view := toView(acc)
	return &view, nil
}

// DeleteUser 删除账号及其全部书评
func (uc *AdminUseCase) DeleteUser(ctx context.Context, id uint) error {
	if err := uc.accounts.DeleteAccount(ctx, id); err != nil {
		return err
	}

	mq.PublishQuietly(ctx, uc.publisher, mq.KeyAccountDeleted, accountEvent{ID: id})
	return nil
}

// CheckAdmin 查询账号是否为管理员
// 账号不存在时返回ErrAccountNotFound，由调用方决定响应体
func (uc *AdminUseCase) CheckAdmin(ctx context.Context, id uint) (*AdminCheckResponse, error) {
	acc, err := uc.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if acc.IsAdmin() {
		return &AdminCheckResponse{IsAdmin: true, Message: "User is an admin"}, nil
	}
	return &AdminCheckResponse{IsAdmin: false, Message: "User is not an admin"}, nil
}
