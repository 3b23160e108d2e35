package middleware

import "context"

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxEmail  contextKey = "email"
	ctxRole   contextKey = "actor_role"
)

func ctxString(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// UserIDFromContext returns the authenticated user's id, or "" when
// the request never passed the auth middleware.
func UserIDFromContext(ctx context.Context) string {
	return ctxString(ctx, ctxUserID)
}

func EmailFromContext(ctx context.Context) string {
	return ctxString(ctx, ctxEmail)
}

func RoleFromContext(ctx context.Context) string {
	return ctxString(ctx, ctxRole)
}

// WithUserID seeds the user id directly; handler tests use this to
// skip the auth middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
