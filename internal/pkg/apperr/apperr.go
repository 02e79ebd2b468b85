package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means the operation ran without a valid user
	// session or connected signing identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrWrongNetwork means a ledger operation was addressed to an
	// unexpected ledger instance.
	ErrWrongNetwork = errors.New("wrong ledger network")
	// ErrUploadFailed means the content-addressed store rejected the
	// upload or was unreachable. Registration aborts before any ledger
	// write when this occurs.
	ErrUploadFailed = errors.New("upload failed")
	// ErrLedgerWriteFailed means the ledger rejected a write after a
	// successful upload. The uploaded content is orphaned.
	ErrLedgerWriteFailed = errors.New("ledger write failed")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// HTTPStatus maps an error to the status and code handlers respond with.
func HTTPStatus(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status, apiErr.Code
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrWrongNetwork):
		return http.StatusBadGateway, "wrong_network"
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway, "upload_failed"
	case errors.Is(err, ErrLedgerWriteFailed):
		return http.StatusBadGateway, "ledger_write_failed"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
