package account

import (
	"context"
)

// Repository 账号仓储接口
// 接口定义在domain层，实现在infrastructure/persistence（sqldb、memory）
type Repository interface {
	// Create 创建账号，回填ID和CreatedAt
	// 用户名已存在时返回ErrUsernameTaken
	Create(ctx context.Context, account *Account) error

	// FindByCredentials 用户名和密码精确匹配
	// 不匹配时返回ErrAccountNotFound
	FindByCredentials(ctx context.Context, username, password string) (*Account, error)

	// FindByID 不存在时返回ErrAccountNotFound
	FindByID(ctx context.Context, id uint) (*Account, error)

	// FindByUsername 不存在时返回ErrAccountNotFound
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// List 按ID升序返回所有账号，不包含密码
	List(ctx context.Context) ([]*Account, error)

	// UpdatePrivilege 修改权限，不存在时返回ErrAccountNotFound
	UpdatePrivilege(ctx context.Context, id uint, privilege Privilege) error

	// DeleteWithReviews 在一个事务内先删除该账号的全部书评，再删除账号
	// 任一步失败整体回滚；账号不存在时返回ErrAccountNotFound（同样回滚）
	DeleteWithReviews(ctx context.Context, id uint) error
}
