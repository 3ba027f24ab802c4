package ratelimit

import "context"

type identifierKey struct{}

// ContextWithIdentifier stores the resolved quota identifier in ctx.
func ContextWithIdentifier(ctx context.Context, identifier string) context.Context {
	return context.WithValue(ctx, identifierKey{}, identifier)
}

// IdentifierFromContext returns the identifier stored by ContextWithIdentifier.
func IdentifierFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identifierKey{}).(string)

	return id, ok && id != ""
}
