package account

import "strings"

// Privilege 账号权限（封闭枚举）
// 零值是非法值，避免未赋值的账号被当成guest或admin
type Privilege int

const (
	PrivilegeGuest Privilege = iota + 1
	PrivilegeAdmin
)

// String 存储和响应中使用的角色名
func (p Privilege) String() string {
	switch p {
	case PrivilegeGuest:
		return "guest"
	case PrivilegeAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// IsAdmin 是否管理员权限
func (p Privilege) IsAdmin() bool {
	switch p {
	case PrivilegeAdmin:
		return true
	case PrivilegeGuest:
		return false
	default:
		return false
	}
}

// Valid 是否为已定义的权限
func (p Privilege) Valid() bool {
	switch p {
	case PrivilegeGuest, PrivilegeAdmin:
		return true
	default:
		return false
	}
}

// ParsePrivilege 解析角色名（大小写不敏感）
func ParsePrivilege(s string) (Privilege, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "guest":
		return PrivilegeGuest, nil
	case "admin":
		return PrivilegeAdmin, nil
	default:
		return 0, ErrInvalidPrivilege
	}
}

// MarshalText JSON中输出角色名
func (p Privilege) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText 从角色名解析
func (p *Privilege) UnmarshalText(text []byte) error {
	parsed, err := ParsePrivilege(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
