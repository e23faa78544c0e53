package account

import (
	"context"
	"errors"
	"strings"
)

// Service 账号领域服务
// 设计说明：
// 1. Service承载不属于单个实体的规则（引导管理员保护、默认权限）
// 2. 依赖Repository接口，不依赖具体存储
type Service interface {
	// Register 注册访客账号
	Register(ctx context.Context, username, password string) (*Account, error)

	// CreateAccount 管理员创建指定权限的账号
	CreateAccount(ctx context.Context, username, password string, privilege Privilege) (*Account, error)

	// GetAccount 按ID查询
	GetAccount(ctx context.Context, id uint) (*Account, error)

	// ListAccounts 列出所有账号（不含密码）
	ListAccounts(ctx context.Context) ([]*Account, error)

	// ChangePrivilege 修改权限，引导管理员不可降级
	ChangePrivilege(ctx context.Context, id uint, privilege Privilege) (*Account, error)

	// DeleteAccount 删除账号及其全部书评，引导管理员不可删除
	DeleteAccount(ctx context.Context, id uint) error

	// EnsureBootstrapAdmin 启动时确保引导管理员存在
	// created为true表示本次新建
	EnsureBootstrapAdmin(ctx context.Context, username, password string) (acc *Account, created bool, err error)
}

type service struct {
	repo Repository
}

// NewService 创建账号服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, username, password string) (*Account, error) {
	return s.CreateAccount(ctx, username, password, PrivilegeGuest)
}

// CreateAccount 创建账号
// 业务规则：
// 1. 用户名、密码不能为空（用户名去掉首尾空白后判断）
// 2. 权限必须是已定义的枚举值
// 3. 用户名唯一性由存储层保证，并发注册时只有一个成功
func (s *service) CreateAccount(ctx context.Context, username, password string, privilege Privilege) (*Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if !privilege.Valid() {
		return nil, ErrInvalidPrivilege
	}

	acc := NewAccount(username, password, privilege)
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *service) GetAccount(ctx context.Context, id uint) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}

func (s *service) ChangePrivilege(ctx context.Context, id uint, privilege Privilege) (*Account, error) {
	if !privilege.Valid() {
		return nil, ErrInvalidPrivilege
	}
	if id == BootstrapAccountID && !privilege.IsAdmin() {
		return nil, ErrBootstrapDemotion
	}

	if err := s.repo.UpdatePrivilege(ctx, id, privilege); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

// DeleteAccount 删除账号
// 引导管理员的判断在访问存储之前完成
func (s *service) DeleteAccount(ctx context.Context, id uint) error {
	if id == BootstrapAccountID {
		return ErrBootstrapUndeletable
	}
	return s.repo.DeleteWithReviews(ctx, id)
}

func (s *service) EnsureBootstrapAdmin(ctx context.Context, username, password string) (*Account, bool, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, false, err
	}

	acc, err := s.CreateAccount(ctx, username, password, PrivilegeAdmin)
	if errors.Is(err, ErrUsernameTaken) {
		// 多个实例同时启动，另一个实例已经写入
		existing, err = s.repo.FindByUsername(ctx, username)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}
