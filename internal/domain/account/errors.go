package account

import (
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
)

// 账号领域错误定义
// Message直接返回给客户端，保持与前端约定的英文提示
var (
	// ErrAccountNotFound 账号不存在
	ErrAccountNotFound = apperrors.New(apperrors.CodeNotFound, "User not found")

	// ErrUsernameTaken 用户名已存在
	ErrUsernameTaken = apperrors.New(apperrors.CodeConflict, "Username already exists")

	// ErrMissingCredentials 注册时用户名或密码为空
	ErrMissingCredentials = apperrors.New(apperrors.CodeInvalidInput, "Username and password are required")

	// ErrInvalidPrivilege 未知角色
	ErrInvalidPrivilege = apperrors.New(apperrors.CodeInvalidInput, "Role must be 'guest' or 'admin'")

	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "Invalid credentials")

	// ErrMalformedCredentials 凭证为空或格式错误
	ErrMalformedCredentials = apperrors.New(apperrors.CodeUnauthorized, "Invalid credentials format")

	// ErrAdminRequired 需要管理员权限
	ErrAdminRequired = apperrors.New(apperrors.CodeForbidden, "Admin rights required to access this resource")

	// ErrBootstrapUndeletable 引导管理员不可删除
	ErrBootstrapUndeletable = apperrors.New(apperrors.CodeForbidden, "Cannot delete the admin user")

	// ErrBootstrapDemotion 引导管理员不可降级
	ErrBootstrapDemotion = apperrors.New(apperrors.CodeForbidden, "Cannot change the role of the admin user")
)
