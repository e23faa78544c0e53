package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appaccount "github.com/xiebiao/booknerds/internal/application/account"
	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/interface/http/dto"
	"github.com/xiebiao/booknerds/internal/interface/http/middleware"
	"github.com/xiebiao/booknerds/pkg/response"
)

// AccountHandler 账号HTTP处理器
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 管理员接口的权限由BasicAuth中间件校验
type AccountHandler struct {
	registerUseCase *appaccount.RegisterUseCase
	loginUseCase    *appaccount.LoginUseCase
	adminUseCase    *appaccount.AdminUseCase
}

// NewAccountHandler 创建账号处理器
func NewAccountHandler(
	registerUseCase *appaccount.RegisterUseCase,
	loginUseCase *appaccount.LoginUseCase,
	adminUseCase *appaccount.AdminUseCase,
) *AccountHandler {
	return &AccountHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		adminUseCase:    adminUseCase,
	}
}

// Login 登录
// @Summary      登录
// @Description  使用HTTP Basic凭证登录，返回账号信息
// @Tags         账号
// @Produce      json
// @Security     BasicAuth
// @Success      200 {object} appaccount.AuthResponse
// @Failure      401 {object} response.ErrorBody "凭证缺失或错误"
// @Router       /api/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	creds, err := middleware.ParseBasic(c.GetHeader("Authorization"))
	if err != nil {
		middleware.Challenge(c, middleware.RealmLogin, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appaccount.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		middleware.Challenge(c, middleware.RealmLogin, err)
		return
	}

	response.Success(c, result)
}

// Register 注册
// @Summary      注册
// @Description  创建访客账号（/api/users为同一接口）
// @Tags         账号
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} appaccount.AuthResponse
// @Failure      400 {object} response.ErrorBody "用户名或密码为空"
// @Failure      409 {object} response.ErrorBody "用户名已存在"
// @Router       /api/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, account.ErrMissingCredentials)
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appaccount.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListUsers 账号列表
// @Summary      账号列表
// @Tags         管理
// @Produce      json
// @Security     BasicAuth
// @Success      200 {array} appaccount.UserView
// @Failure      401 {object} response.ErrorBody
// @Failure      403 {object} response.ErrorBody
// @Router       /api/admin/users [get]
func (h *AccountHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUseCase.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// CreateUser 创建账号
// @Summary      创建指定角色的账号
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body dto.CreateUserRequest true "账号信息"
// @Success      201 {object} appaccount.UserView
// @Failure      400 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /api/admin/users [post]
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, account.ErrMissingCredentials)
		return
	}

	user, err := h.adminUseCase.CreateUser(c.Request.Context(), appaccount.CreateUserRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// ChangeRole 修改角色
// @Summary      修改账号角色
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "账号ID"
// @Param        request body dto.ChangeRoleRequest true "角色"
// @Success      200 {object} appaccount.UserView
// @Failure      403 {object} response.ErrorBody "不能降级引导管理员"
// @Failure      404 {object} response.ErrorBody
// @Router       /api/admin/users/{id}/role [put]
func (h *AccountHandler) ChangeRole(c *gin.Context) {
	id, err := paramID(c, "id", ErrInvalidUserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, account.ErrInvalidPrivilege)
		return
	}

	user, err := h.adminUseCase.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// DeleteUser 删除账号（同时删除其全部书评）
// @Summary      删除账号
// @Tags         管理
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "账号ID"
// @Success      200 {object} response.MessageBody
// @Failure      403 {object} response.ErrorBody "不能删除引导管理员"
// @Failure      404 {object} response.ErrorBody
// @Router       /api/admin/users/{id} [delete]
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	id, err := paramID(c, "id", ErrInvalidUserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminUseCase.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "User deleted successfully")
}

// CheckAdmin 查询账号是否为管理员
// @Summary      是否管理员
// @Tags         管理
// @Produce      json
// @Param        userId query int true "账号ID"
// @Success      200 {object} appaccount.AdminCheckResponse
// @Failure      400 {object} appaccount.AdminCheckResponse
// @Failure      404 {object} appaccount.AdminCheckResponse
// @Router       /api/admin/check [get]
func (h *AccountHandler) CheckAdmin(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, appaccount.AdminCheckResponse{Message: "User ID is required"})
		return
	}

	id, err := parseID(raw, ErrInvalidUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, appaccount.AdminCheckResponse{Message: "Invalid user id"})
		return
	}

	result, err := h.adminUseCase.CheckAdmin(c.Request.Context(), id)
	if errors.Is(err, account.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, appaccount.AdminCheckResponse{Message: "User not found"})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
