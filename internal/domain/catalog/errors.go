package catalog

import (
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
)

var (
	// ErrSearchFailed 搜索失败
	ErrSearchFailed = apperrors.New(apperrors.CodeUpstream, "Error fetching books")

	// ErrLookupFailed 查询详情失败
	ErrLookupFailed = apperrors.New(apperrors.CodeUpstream, "Error fetching book details")

	// ErrMissingBookID 图书ID为空
	ErrMissingBookID = apperrors.New(apperrors.CodeInvalidInput, "Book id is required")
)
