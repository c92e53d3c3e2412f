package approval

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeInvalidRecordType Code = "INVALID_RECORD_TYPE"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeRecordNotFound    Code = "RECORD_NOT_FOUND"
	CodeNoPendingApproval Code = "NO_PENDING_APPROVAL"
	CodeApprovalError     Code = "APPROVAL_ERROR"
)

// Error is the typed failure returned by the approval usecase.
// errors.Is matches on Code, so the sentinels below work against wrapped values.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidRecordType, CodeValidation:
		return http.StatusBadRequest
	case CodeRecordNotFound:
		return http.StatusNotFound
	case CodeNoPendingApproval:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrInvalidRecordType = &Error{Code: CodeInvalidRecordType, Message: "invalid record type"}
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrRecordNotFound    = &Error{Code: CodeRecordNotFound, Message: "record not found"}
	ErrNoPendingApproval = &Error{Code: CodeNoPendingApproval, Message: "no pending approval for record"}
	ErrApproval          = &Error{Code: CodeApprovalError, Message: "approval failed"}
)

func NewError(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Err: cause}
}

// Wrap keeps an existing *Error as is and turns anything else into APPROVAL_ERROR.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Code: CodeApprovalError, Message: ErrApproval.Message, Err: err}
}

// CodeOf returns the code carried by err, APPROVAL_ERROR when it carries none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeApprovalError
}
