package auth

import (
	"context"

	"github.com/rezkam/cardfile/internal/domain"
)

type contextKey struct{}

// WithCaller returns a context carrying the authenticated caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext extracts the caller. Anonymous requests get an empty
// caller with the regular user role, which grants approved-only visibility.
func CallerFromContext(ctx context.Context) domain.Caller {
	if caller, ok := ctx.Value(contextKey{}).(domain.Caller); ok {
		return caller
	}
	return domain.Caller{Role: domain.RoleUser}
}

// IsAuthenticated reports whether the context carries a verified caller.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := ctx.Value(contextKey{}).(domain.Caller)
	return ok
}
