package stafferrors

import (
	"net/http"

	"go-kintai/internal/shared/apperror"
)

var (
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"staff not found",
		http.StatusNotFound,
	)
	ErrStaffNameTaken = apperror.New(
		apperror.CodeConflict,
		"a staff member with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid name or password",
		http.StatusUnauthorized,
	)
	ErrReservedName = apperror.New(
		apperror.CodeInvalidInput,
		"this name is reserved",
		http.StatusBadRequest,
	)
)
