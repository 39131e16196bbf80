package rbac

import (
	"context"
	"errors"
)

// ErrNoUser is returned when the request carries no authenticated user.
var ErrNoUser = errors.New("rbac: no authenticated user")

type userContextKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, &u)
}

// UserFromContext extracts the authenticated user, or nil.
func UserFromContext(ctx context.Context) *AuthenticatedUser {
	u, _ := ctx.Value(userContextKey{}).(*AuthenticatedUser)
	return u
}

// CurrentUser returns the authenticated user or ErrNoUser.
func CurrentUser(ctx context.Context) (AuthenticatedUser, error) {
	u := UserFromContext(ctx)
	if u == nil {
		return AuthenticatedUser{}, ErrNoUser
	}
	return *u, nil
}
