package auth

import (
	"context"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var userContextKey = &contextKey{name: "auth_user"}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user notification.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (notification.User, bool) {
	user, ok := ctx.Value(userContextKey).(notification.User)
	return user, ok && user.ID != ""
}
