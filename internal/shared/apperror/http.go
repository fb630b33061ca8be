package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// Converter is implemented by infrastructure errors that know their own
// user-facing representation.
type Converter interface {
	AsAppError() *AppError
}

// ToHTTP renders any error into the status/code/message triple used by the
// response envelope. Unknown errors never leak their text.
func ToHTTP(err error) HTTPError {
	if err == nil {
		return HTTPError{Status: http.StatusOK}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	var conv Converter
	if errors.As(err, &conv) {
		if ae := conv.AsAppError(); ae != nil {
			return HTTPError{
				Status:  ae.HTTPStatus,
				Code:    ae.Code,
				Message: ae.Message,
				Details: ae.Details,
			}
		}
	}

	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
