package auth

import "context"

type claimsContextKey struct{}

// WithClaims returns a context carrying the verified claims of the caller.
func WithClaims(ctx context.Context, claims ClaimSet) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims attached by the authorization gate.
func ClaimsFromContext(ctx context.Context) (ClaimSet, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(ClaimSet)
	return claims, ok
}

// MustClaimsFromContext panics when the handler was not wrapped by the gate.
func MustClaimsFromContext(ctx context.Context) ClaimSet {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		panic("auth: claims not found in context")
	}
	return claims
}
