package auth

import (
	"context"

	"repairorder/internal/entity"
)

// Identity is the authenticated caller decoded from a verified token.
type Identity struct {
	ID       uint
	Username string
	Role     string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == entity.UserRoleAdmin
}

type identityKey struct{}

// WithIdentity attaches the caller identity to ctx.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
