package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"unibook/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		kind    failure.Kind
		message string
	}{
		{
			name:    "BadRequestFromString",
			err:     failure.BadRequestFromString("custom bad request"),
			code:    http.StatusBadRequest,
			kind:    failure.KindBadRequest,
			message: "custom bad request",
		},
		{
			name:    "InvalidDate",
			err:     failure.InvalidDate("cannot book in the past"),
			code:    http.StatusBadRequest,
			kind:    failure.KindInvalidDate,
			message: "cannot book in the past",
		},
		{
			name:    "InvalidState",
			err:     failure.InvalidState("only pending bookings can be approved"),
			code:    http.StatusUnprocessableEntity,
			kind:    failure.KindInvalidState,
			message: "only pending bookings can be approved",
		},
		{
			name:    "Unauthorized",
			err:     failure.Unauthorized("token expired"),
			code:    http.StatusUnauthorized,
			kind:    failure.KindUnauthorized,
			message: "token expired",
		},
		{
			name:    "NotFound",
			err:     failure.NotFound("booking not found"),
			code:    http.StatusNotFound,
			kind:    failure.KindNotFound,
			message: "booking not found",
		},
		{
			name:    "Conflict",
			err:     failure.Conflict("room is already booked for this time slot"),
			code:    http.StatusConflict,
			kind:    failure.KindConflict,
			message: "room is already booked for this time slot",
		},
		{
			name:    "Forbidden",
			err:     failure.Forbidden("only admins can approve bookings"),
			code:    http.StatusForbidden,
			kind:    failure.KindForbidden,
			message: "only admins can approve bookings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.err.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", tt.err)
			}
			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}
			if f.Kind != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, f.Kind)
			}
			if f.Message != tt.message {
				t.Errorf("expected message to be '%s', got %s", tt.message, f.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Errorf("expected nil for nil error")
	}

	result := failure.BadRequest(errors.New("invalid input"))
	if failure.GetCode(result) != http.StatusBadRequest {
		t.Errorf("expected code to be %d, got %d", http.StatusBadRequest, failure.GetCode(result))
	}
	if result.Error() != "invalid input" {
		t.Errorf("expected message to be 'invalid input', got %s", result.Error())
	}
}

func TestForbiddenError(t *testing.T) {
	wrapped := fmt.Errorf("rbac: %w", failure.ForbiddenError)

	if failure.GetCode(wrapped) != http.StatusForbidden {
		t.Errorf("expected code to be %d, got %d", http.StatusForbidden, failure.GetCode(wrapped))
	}
	if !failure.Is(wrapped, failure.KindForbidden) {
		t.Errorf("expected wrapped error to be of kind %s", failure.KindForbidden)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("failed to create booking: %w", failure.Conflict("test")),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestGetKindAndIs(t *testing.T) {
	wrapped := fmt.Errorf("failed to approve booking: %w", failure.InvalidState("only pending bookings can be approved"))

	if failure.GetKind(wrapped) != failure.KindInvalidState {
		t.Errorf("expected kind to be %s, got %s", failure.KindInvalidState, failure.GetKind(wrapped))
	}
	if !failure.Is(wrapped, failure.KindInvalidState) {
		t.Errorf("expected wrapped error to be of kind %s", failure.KindInvalidState)
	}
	if failure.Is(wrapped, failure.KindConflict) {
		t.Errorf("expected wrapped error not to be of kind %s", failure.KindConflict)
	}
	if failure.GetKind(errors.New("boom")) != failure.KindInternal {
		t.Errorf("expected plain error to be of kind %s", failure.KindInternal)
	}
}
