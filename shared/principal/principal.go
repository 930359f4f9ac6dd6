// Package principal reads the authenticated caller placed in the request context by the auth middleware.
package principal

import (
	"context"

	userModel "unibook/internal/domains/user/model"
	"unibook/shared/constant"
	"unibook/shared/failure"
)

type Principal struct {
	UserID string
	Email  string
	Role   userModel.Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

// WithPrincipal stores p under the context keys the handlers read.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, p.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, p.Role.String())

	return ctx
}

// FromContext returns the caller, or false when the request was not authenticated.
func FromContext(ctx context.Context) (Principal, bool) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return Principal{}, false
	}

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Principal{UserID: userID, Email: email, Role: userModel.Role(role)}, true
}

// Require is FromContext for handlers behind the auth middleware; a missing principal is Unauthorized.
func Require(ctx context.Context) (Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return p, failure.Unauthorized("unauthorized") //nolint:wrapcheck
	}

	return p, nil
}
