package auth

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Authorize allows identities holding role. A context without an identity is
// rejected as well.
func Authorize(ctx context.Context, role models.Role) error {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.Role != role {
		return common.ErrForbidden
	}
	return nil
}

// RequireRole returns a Step enforcing Authorize. It must follow the gate.
func RequireRole(role models.Role) Step {
	return func(ctx context.Context, _ string) (context.Context, error) {
		if err := Authorize(ctx, role); err != nil {
			return ctx, err
		}
		return ctx, nil
	}
}

// RequireAdmin is RequireRole(models.RoleAdmin).
func RequireAdmin() Step { return RequireRole(models.RoleAdmin) }
