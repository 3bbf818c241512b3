// ABOUTME: Authentication context for tracking the administrator through request handlers
// ABOUTME: Provides WithAdmin/AdminFromContext for propagating identity via context

package auth

import (
	"context"
)

// adminKey is the key type for storing the admin username in context.Context.
type adminKey struct{}

// WithAdmin returns a new context carrying the authenticated username.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey{}, username)
}

// AdminFromContext returns the authenticated username, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(adminKey{}).(string)
	return username, ok && username != ""
}
