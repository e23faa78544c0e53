package account

import (
	"strings"
	"time"
)

// BootstrapAccountID 引导管理员账号ID
// 首次启动时写入的第一个账号，不可删除，也不可降级
const BootstrapAccountID uint = 1

// Account 账号实体（聚合根）
// 设计说明：
// 1. Username创建后不可修改，唯一性由存储层的唯一索引保证
// 2. Password按原样存储和比较（凭证每次请求通过Basic认证重新发送）
// 3. 领域实体不依赖GORM tag，映射在persistence层完成
type Account struct {
	ID        uint
	Username  string
	Password  string
	Privilege Privilege
	CreatedAt time.Time
}

// NewAccount 创建新账号（工厂方法）
func NewAccount(username, password string, privilege Privilege) *Account {
	return &Account{
		Username:  strings.TrimSpace(username),
		Password:  password,
		Privilege: privilege,
		CreatedAt: time.Now(),
	}
}

// IsAdmin 是否管理员
func (a *Account) IsAdmin() bool {
	return a != nil && a.Privilege.IsAdmin()
}

// IsBootstrap 是否引导管理员账号
func (a *Account) IsBootstrap() bool {
	return a != nil && a.ID == BootstrapAccountID
}

// Sanitized 返回去掉密码的副本（用于列表、响应）
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Password = ""
	return &cp
}
