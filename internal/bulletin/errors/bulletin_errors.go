package bulletinerrors

import (
	"net/http"

	"go-kintai/internal/shared/apperror"
)

var (
	ErrPostNotFound = apperror.New(
		apperror.CodeNotFound,
		"post not found",
		http.StatusNotFound,
	)
	ErrTitleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"title is required",
		http.StatusBadRequest,
	)
	ErrContentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"content is required",
		http.StatusBadRequest,
	)
	ErrNotAuthor = apperror.New(
		apperror.CodeForbidden,
		"only the author can change this post",
		http.StatusForbidden,
	)
)
