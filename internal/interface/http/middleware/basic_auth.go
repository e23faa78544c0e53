package middleware

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknerds/internal/domain/account"
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
	"github.com/xiebiao/booknerds/pkg/response"
)

// 认证域（WWW-Authenticate头的realm）
const (
	RealmLogin = "BookNerds Login"
	RealmAdmin = "Admin Access"
)

// accountKey 当前账号在gin.Context中的键
const accountKey = "account"

// ErrAuthRequired 没有Authorization头
var ErrAuthRequired = apperrors.New(apperrors.CodeUnauthorized, "Authentication required")

// Credentials HTTP Basic凭证
type Credentials struct {
	Username string
	Password string
}

// ParseBasic 解析 Authorization: Basic base64(username:password)
// 缺少头返回ErrAuthRequired；格式错误或任一部分为空返回ErrMalformedCredentials
func ParseBasic(header string) (Credentials, error) {
	if header == "" {
		return Credentials{}, ErrAuthRequired
	}

	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return Credentials{}, account.ErrMalformedCredentials
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return Credentials{}, account.ErrMalformedCredentials
	}

	// 密码中可以包含冒号，只按第一个冒号切分
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" || password == "" {
		return Credentials{}, account.ErrMalformedCredentials
	}

	return Credentials{Username: username, Password: password}, nil
}

// Challenge 写入错误响应，401时附带WWW-Authenticate头
func Challenge(c *gin.Context, realm string, err error) {
	if apperrors.GetAppError(err).HTTPStatus() == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	}
	response.AbortWithError(c, err)
}

// BasicAuth 基于HTTP Basic的管理员校验中间件
// 1. 每个请求都携带凭证，不保存会话
// 2. 凭证缺失或错误返回401，已认证的访客返回403
// 3. 校验通过后把账号写入Context
type BasicAuth struct {
	auth *account.Authenticator
}

// NewBasicAuth 创建认证中间件
func NewBasicAuth(auth *account.Authenticator) *BasicAuth {
	return &BasicAuth{auth: auth}
}

// RequireAdmin 要求管理员权限
//
//	admin := api.Group("/admin")
//	admin.Use(basicAuth.RequireAdmin())
func (m *BasicAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds, err := ParseBasic(c.GetHeader("Authorization"))
		if err != nil {
			Challenge(c, RealmAdmin, err)
			return
		}

		acc, err := m.auth.AuthorizeAdmin(c.Request.Context(), creds.Username, creds.Password)
		if err != nil {
			Challenge(c, RealmAdmin, err)
			return
		}

		c.Set(accountKey, acc)
		c.Next()
	}
}

// CurrentAccount 获取中间件写入的账号
func CurrentAccount(c *gin.Context) (*account.Account, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	acc, ok := v.(*account.Account)
	return acc, ok
}
