package auth

import "context"

// Actor is the authenticated identity acting on a request. It is derived
// from the bearer token by middleware and passed explicitly into every core
// call; nothing in the core reads identity from ambient state.
type Actor struct {
	ID    string
	Email string
	Role  string
}

type contextKey string

const (
	actorContextKey  contextKey = "ajali.actor"
	claimsContextKey contextKey = "ajali.claims"
)

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey).(*Actor)
	return actor
}

// WithClaims keeps the raw token claims alongside the actor so logout can
// revoke the exact token (jti) that authenticated the request.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}
