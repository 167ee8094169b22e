package context

import (
	"context"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

type userKey struct{}

func WithUser(ctx context.Context, user *dal.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFromContext(ctx context.Context) (*dal.User, bool) {
	user, ok := ctx.Value(userKey{}).(*dal.User)
	return user, ok && user != nil
}

// MustUserFromContext is for handlers mounted behind the auth middleware.
func MustUserFromContext(ctx context.Context) *dal.User {
	user, ok := UserFromContext(ctx)
	if !ok {
		panic("user is not set in context")
	}
	return user
}
