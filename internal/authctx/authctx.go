// Package authctx carries per-request authentication state through a context.Context.
package authctx

import (
	"context"

	"bookmarket/internal/models"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// WithUser returns a copy of ctx carrying the resolved user. A nil user marks
// the request as anonymous.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// User returns the user attached by the auth context middleware, or nil.
func User(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithToken returns a copy of ctx carrying the raw credential from the request.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// Token returns the raw credential presented with the request, or "".
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
