// Package failure carries client-facing errors. Each Kind maps to one HTTP status; any other error is
// reported as 500.
package failure

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindInvalidDate  Kind = "INVALID_DATE"
	KindInvalidState Kind = "INVALID_STATE"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindInternal     Kind = "INTERNAL"
)

var statusOf = map[Kind]int{
	KindBadRequest:   http.StatusBadRequest,
	KindInvalidDate:  http.StatusBadRequest,
	KindInvalidState: http.StatusUnprocessableEntity,
	KindConflict:     http.StatusConflict,
	KindForbidden:    http.StatusForbidden,
	KindUnauthorized: http.StatusUnauthorized,
	KindNotFound:     http.StatusNotFound,
	KindInternal:     http.StatusInternalServerError,
}

type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(kind Kind, message string) *Failure {
	return &Failure{Code: statusOf[kind], Kind: kind, Message: message}
}

var ForbiddenError = newFailure(KindForbidden, "You don't have the required permissions")

// BadRequest wraps a decoding or parsing error. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(KindBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(KindBadRequest, msg)
}

// InvalidDate rejects a requested slot: past, too far ahead, outside hours or on a holiday.
func InvalidDate(msg string) error {
	return newFailure(KindInvalidDate, msg)
}

// InvalidState rejects a transition the booking's current status does not allow.
func InvalidState(msg string) error {
	return newFailure(KindInvalidState, msg)
}

func Unauthorized(msg string) error {
	return newFailure(KindUnauthorized, msg)
}

func NotFound(msg string) error {
	return newFailure(KindNotFound, msg)
}

func Conflict(msg string) error {
	return newFailure(KindConflict, msg)
}

func Forbidden(msg string) error {
	return newFailure(KindForbidden, msg)
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}

// GetCode returns the HTTP status for err, 500 unless it wraps a Failure.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func GetKind(err error) Kind {
	if fail, ok := as(err); ok {
		return fail.Kind
	}

	return KindInternal
}

// Is reports whether err wraps a Failure of the given kind.
func Is(err error, kind Kind) bool {
	fail, ok := as(err)

	return ok && fail.Kind == kind
}
