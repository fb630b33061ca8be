package tablestore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go-kintai/internal/shared/apperror"
)

type Kind int

const (
	KindFatal Kind = iota
	KindConnectionOrAuth
	KindRateLimited
	KindNotFound
	KindValidation
	KindPartialWrite
)

func (k Kind) String() string {
	switch k {
	case KindConnectionOrAuth:
		return "ConnectionOrAuthError"
	case KindRateLimited:
		return "RateLimited"
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "ValidationError"
	case KindPartialWrite:
		return "PartialWriteError"
	default:
		return "Fatal"
	}
}

var (
	ErrRateLimited   = errors.New("rate limit or quota exceeded")
	ErrUnauthorized  = errors.New("access to the store was denied")
	ErrTableNotFound = errors.New("table not found")
	ErrNoMatch       = errors.New("no row matches the key")
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown key column")
)

// Error is the only error type that leaves the store boundary.
type Error struct {
	Kind  Kind
	Op    string
	Table Table
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tablestore: %s %s: %s: %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) AsAppError() *apperror.AppError {
	return appErrorFor(e.Kind, Message(e.Kind))
}

// PartialWriteError reports a multi-row write that stored only some rows.
// Nothing is rolled back.
type PartialWriteError struct {
	Op        string
	Table     Table
	Requested int
	Succeeded int
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("tablestore: %s %s: %d of %d rows written: %v",
		e.Op, e.Table, e.Succeeded, e.Requested, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

func (e *PartialWriteError) AsAppError() *apperror.AppError {
	return appErrorFor(KindPartialWrite,
		fmt.Sprintf("Saved %d of %d rows. Check the ledger before retrying.", e.Succeeded, e.Requested)).
		WithDetails(map[string]int{"requested": e.Requested, "succeeded": e.Succeeded})
}

func appErrorFor(kind Kind, msg string) *apperror.AppError {
	switch kind {
	case KindRateLimited:
		return apperror.New(apperror.CodeRateLimited, msg, http.StatusTooManyRequests)
	case KindConnectionOrAuth:
		return apperror.New(apperror.CodeServiceUnavailable, msg, http.StatusServiceUnavailable)
	case KindNotFound:
		return apperror.New(apperror.CodeNotFound, msg, http.StatusNotFound)
	case KindValidation:
		return apperror.New(apperror.CodeInvalidInput, msg, http.StatusBadRequest)
	case KindPartialWrite:
		return apperror.New(apperror.CodePartialWrite, msg, http.StatusMultiStatus)
	default:
		return apperror.New(apperror.CodeInternalError, msg, http.StatusInternalServerError)
	}
}

// Message is the user-facing text for a failure kind.
func Message(k Kind) string {
	switch k {
	case KindRateLimited:
		return "The spreadsheet API rate limit was reached. Wait a minute or two and try again."
	case KindConnectionOrAuth:
		return "The ledger store could not be accessed. Check the service account credentials and that it has editor access to the spreadsheet."
	case KindNotFound:
		return "The requested ledger entry or table was not found."
	case KindValidation:
		return "The record was rejected as invalid."
	case KindPartialWrite:
		return "Only part of the operation was saved."
	default:
		return "The ledger store reported an unexpected error."
	}
}

// KindOf classifies any error returned by this package.
func KindOf(err error) Kind {
	var pw *PartialWriteError
	if errors.As(err, &pw) {
		return KindPartialWrite
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return classify(nil, err)
}

func IsRateLimited(err error) bool { return KindOf(err) == KindRateLimited }

func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// Result is the (success, message) pair handed to presentation code.
type Result struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func Outcome(err error) Result {
	if err == nil {
		return Result{Success: true, Message: "ok"}
	}
	var pw *PartialWriteError
	if errors.As(err, &pw) {
		return Result{Kind: KindPartialWrite.String(), Message: pw.AsAppError().Message}
	}
	k := KindOf(err)
	return Result{Kind: k.String(), Message: Message(k)}
}

func classify(backend Backend, err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrUnauthorized):
		return KindConnectionOrAuth
	case errors.Is(err, ErrTableNotFound), errors.Is(err, ErrNoMatch):
		return KindNotFound
	case errors.Is(err, ErrUnknownTable), errors.Is(err, ErrUnknownColumn):
		return KindValidation
	}
	if c, ok := backend.(Classifier); ok {
		if k := c.Classify(err); k != KindFatal {
			return k
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindConnectionOrAuth
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectionOrAuth
	}
	return KindFatal
}
