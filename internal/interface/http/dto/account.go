package dto

// HTTP层请求DTO
// 必填校验放在领域层（统一返回InvalidInput），这里只做JSON绑定

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret"`
}

// CreateUserRequest 管理员创建账号
type CreateUserRequest struct {
	Username string `json:"username" example:"moderator"`
	Password string `json:"password" example:"secret"`
	Role     string `json:"role" example:"admin"` // guest | admin，为空按guest
}

// ChangeRoleRequest 修改角色
type ChangeRoleRequest struct {
	Role string `json:"role" example:"admin"`
}
