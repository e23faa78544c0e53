package account

import "crypto/subtle"

// BreakGlassPolicy 引导管理员快捷通道
//
// 启用时，用户名和密码与引导凭证完全一致即视为管理员，不查询存储。
// 这是为了兼容已有客户端保留的简化做法，可通过配置auth.break_glass_enabled关闭。
type BreakGlassPolicy struct {
	Enabled  bool
	Username string
	Password string
}

// Allows 凭证是否命中快捷通道
func (p BreakGlassPolicy) Allows(username, password string) bool {
	if !p.Enabled || p.Username == "" || p.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.Password)) == 1
	return userOK && passOK
}

// Account 快捷通道对应的合成管理员账号
func (p BreakGlassPolicy) Account() *Account {
	return &Account{
		ID:        BootstrapAccountID,
		Username:  p.Username,
		Privilege: PrivilegeAdmin,
	}
}
