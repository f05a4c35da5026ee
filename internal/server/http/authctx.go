package httpserver

import "context"

type ctxKey string

const userUIDKey ctxKey = "dv.userUID"

// WithUserUID stores the authenticated uid in context.
func WithUserUID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, userUIDKey, uid)
}

// UserUIDFromCtx fetches the authenticated uid from context.
func UserUIDFromCtx(ctx context.Context) (int64, bool) {
	v := ctx.Value(userUIDKey)
	if v == nil {
		return 0, false
	}
	uid, ok := v.(int64)
	return uid, ok
}
