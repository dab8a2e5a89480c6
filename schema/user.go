package schema

import "context"

// UserInfo identifies the caller of a query. It is created once at startup
// and travels with the context into tool calls.
type UserInfo struct {
	UserID   string `json:"user_id" yaml:"id" validate:"required"`
	UserName string `json:"user_name" yaml:"name" validate:"required"`
}

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user UserInfo) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the UserInfo stored by WithUser
func UserFromContext(ctx context.Context) (UserInfo, bool) {
	user, ok := ctx.Value(userCtxKey{}).(UserInfo)
	return user, ok
}
