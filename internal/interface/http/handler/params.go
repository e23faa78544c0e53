package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/booknerds/pkg/errors"
)

// ErrInvalidUserID 账号ID不是正整数
var ErrInvalidUserID = apperrors.New(apperrors.CodeInvalidInput, "Invalid user id")

// parseID 解析正整数ID，失败返回invalid
func parseID(raw string, invalid error) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, invalid
	}
	return uint(id), nil
}

func paramID(c *gin.Context, name string, invalid error) (uint, error) {
	return parseID(c.Param(name), invalid)
}
