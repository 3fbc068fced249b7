package auth

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	admin := WithIdentity(context.Background(), models.Identity{ID: "a", Role: models.RoleAdmin})
	user := WithIdentity(context.Background(), models.Identity{ID: "u", Role: models.RoleUser})

	assert.NoError(t, Authorize(admin, models.RoleAdmin))
	assert.ErrorIs(t, Authorize(user, models.RoleAdmin), common.ErrForbidden)
	assert.ErrorIs(t, Authorize(context.Background(), models.RoleAdmin), common.ErrForbidden)
}

func TestRequireAdmin_Step(t *testing.T) {
	t.Parallel()

	step := RequireAdmin()
	user := WithIdentity(context.Background(), models.Identity{ID: "u", Role: models.RoleUser})

	_, err := step(user, "")
	assert.ErrorIs(t, err, common.ErrForbidden)

	admin := WithIdentity(context.Background(), models.Identity{ID: "a", Role: models.RoleAdmin})
	ctx, err := step(admin, "")
	assert.NoError(t, err)
	assert.Equal(t, admin, ctx)
}
