package auth

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

type identityKey struct{}

// WithIdentity binds the authenticated identity to ctx.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity bound by the gate, if any.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}
