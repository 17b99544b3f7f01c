// Package authctx carries the caller's access token and identity through
// context.Context so the backend client can forward them on outgoing
// requests.
package authctx

import "context"

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderAuthorization   = "Authorization"
	HeaderXRequestId      = "X-Request-Id"
	HeaderXIdempotencyKey = "X-Idempotency-Key"

	tokenKey  contextKey = "access_token"
	userIDKey contextKey = "user_id"
)

// WithToken stores the caller's raw bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// Token returns the stored bearer token, or "" if the context carries none.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithUserID stores the authenticated user's id.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated user's id, or 0 if unauthenticated.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
