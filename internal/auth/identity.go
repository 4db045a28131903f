package auth

import "context"

// Identity is the authenticated caller every service operation acts for.
type Identity struct {
	UserID   uint
	Username string
}

// IsZero reports whether no user is set.
func (i Identity) IsZero() bool {
	return i.UserID == 0
}

// identityContextKey is the context key for the authenticated identity.
type identityContextKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}
