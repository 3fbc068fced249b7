package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	defer db.Close()

	m := NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, db))
	// applying twice is a no-op
	require.NoError(t, m.RunMigrations(ctx, db))

	repo := m.Users(db)
	u, err := repo.Create(ctx, &models.User{Email: "x@y.z", PasswordHash: "h", Role: models.RoleUser})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "x@y.z", got.Email)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "nope", "")
	assert.Error(t, err)
}
