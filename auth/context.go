// Package auth turns verified credentials into a session identity, exposes the current user
// to handlers through the request context, and gates protected routes.
//
// A request is either Anonymous (no Identity in its context) or Authenticated. The transition
// Anonymous -> Authenticated happens in Gateway.Login / Gateway.Register, the reverse in
// Gateway.Logout. Everything in between is read-only: LoadIdentity resolves the session once per
// request and handlers call IdentityFromContext.
package auth

import (
	"context"
)

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	SessionID string `json:"-"`
}

// `contextKey` is unexported so no other package can collide with it.
type contextKey string

const identityContextKey contextKey = "auth_identity"

// NewContextWithIdentity returns a child context carrying id.
func NewContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the identity of the request, if it is authenticated.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok && id != nil
}

// IsAuthenticated reports whether the request carries an identity.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := IdentityFromContext(ctx)
	return ok
}
