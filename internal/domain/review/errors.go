package review

import (
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
)

var (
	// ErrMissingField 必填字段缺失
	ErrMissingField = apperrors.New(apperrors.CodeInvalidInput, "All fields are required")

	// ErrInvalidReviewID 书评ID格式错误
	ErrInvalidReviewID = apperrors.New(apperrors.CodeInvalidInput, "Invalid review id")
)
