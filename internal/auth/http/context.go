// Package http provides HTTP handlers and middleware for token authentication and management.
package http

import (
	"context"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// tokenKey is a context key type for storing the authenticated token.
type tokenKey struct{}

// WithToken stores an authenticated token in the context.
func WithToken(ctx context.Context, token *authDomain.Token) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetToken retrieves the authenticated token from the context.
// Returns (nil, false) for anonymous requests.
func GetToken(ctx context.Context) (*authDomain.Token, bool) {
	token, ok := ctx.Value(tokenKey{}).(*authDomain.Token)
	return token, ok && token != nil
}
