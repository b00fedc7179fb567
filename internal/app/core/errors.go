package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind categorizes failures surfaced by the core components.
type ErrorKind int

const (
	// KindValidation means caller-supplied input violated a precondition.
	// Checked client-side before any network call, never retried automatically.
	KindValidation ErrorKind = iota
	// KindNotFound means a referenced table/order/payment does not exist upstream.
	KindNotFound
	// KindTransient means a network/timeout/server failure; the same stage is
	// safe to retry.
	KindTransient
	// KindState means an operation was invoked in the wrong lifecycle position.
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	case KindState:
		return "state"
	}
	return "unknown"
}

// Error is the typed failure returned by every public core operation.
type Error struct {
	Kind    ErrorKind
	Code    int // HTTP status from the collaborator, 0 for client-side checks
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Transientf(format string, args ...any) *Error {
	return &Error{Kind: KindTransient, Message: fmt.Sprintf(format, args...)}
}

func Statef(format string, args ...any) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// TransientWrap wraps a transport-level failure so callers can retry the stage.
func TransientWrap(err error, message string) *Error {
	return &Error{Kind: KindTransient, Message: message, Cause: err}
}

// FromStatus maps a collaborator error envelope to a typed failure.
// 400/422 are validation, 404 is not-found, everything else is transient.
func FromStatus(code int, message string) *Error {
	kind := KindTransient
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	case http.StatusNotFound:
		kind = KindNotFound
	}
	return &Error{Kind: kind, Code: code, Message: message}
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsValidation(err error) bool { return isKind(err, KindValidation) }
func IsNotFound(err error) bool   { return isKind(err, KindNotFound) }
func IsTransient(err error) bool  { return isKind(err, KindTransient) }
func IsState(err error) bool      { return isKind(err, KindState) }
