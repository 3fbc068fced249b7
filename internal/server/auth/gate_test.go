package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users map[string]*models.User
	err   error
	calls int
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func newGateFixture(t *testing.T) (*Gate, *TokenService, *stubUsers) {
	t.Helper()
	tokens, err := NewTokenService("gate-secret", time.Hour)
	require.NoError(t, err)
	name := "Ann"
	users := &stubUsers{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@b.com", Name: &name, Role: models.RoleUser, PasswordHash: "h"},
	}}
	return NewGate(tokens, users, logging.Nop{}), tokens, users
}

func TestGate_Success(t *testing.T) {
	g, tokens, users := newGateFixture(t)
	tok, err := tokens.Issue("u1")
	require.NoError(t, err)

	ctx, err := g.Authenticate(context.Background(), "Bearer "+tok)
	require.NoError(t, err)

	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, "a@b.com", id.Email)
	assert.Equal(t, models.RoleUser, id.Role)
	assert.Equal(t, 1, users.calls)
}

func TestGate_Rejections(t *testing.T) {
	g, tokens, _ := newGateFixture(t)

	good, err := tokens.Issue("u1")
	require.NoError(t, err)
	ghost, err := tokens.Issue("deleted")
	require.NoError(t, err)

	expiredSvc, err := NewTokenService("gate-secret", time.Hour)
	require.NoError(t, err)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue("u1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   *common.Error
	}{
		{"missing header", "", common.ErrUnauthenticated},
		{"other scheme", "Basic abc", common.ErrUnauthenticated},
		{"lowercase scheme", "bearer " + good, common.ErrUnauthenticated},
		{"empty token", "Bearer ", common.ErrUnauthenticated},
		{"garbage", "Bearer nope", common.ErrInvalidToken},
		{"tampered", "Bearer " + good[:len(good)-2] + "xx", common.ErrInvalidToken},
		{"expired", "Bearer " + expired, common.ErrTokenExpired},
		{"unknown subject", "Bearer " + ghost, common.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := g.Authenticate(context.Background(), tt.header)
			assert.ErrorIs(t, err, tt.want)
			_, ok := IdentityFromContext(ctx)
			assert.False(t, ok)
		})
	}
}

func TestGate_StoreFailureIsInternal(t *testing.T) {
	g, tokens, users := newGateFixture(t)
	users.err = errors.New("connection refused")
	tok, err := tokens.Issue("u1")
	require.NoError(t, err)

	_, err = g.Authenticate(context.Background(), "Bearer "+tok)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Token abc")
	assert.False(t, ok)

	_, ok = BearerToken("Bearer   ")
	assert.False(t, ok)

	// extra spaces around the token are tolerated
	tok, ok = BearerToken("Bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("bearer abc")
	assert.False(t, ok)
}

func TestGate_LogsUnderModule(t *testing.T) {
	tokens, err := NewTokenService("gate-secret", time.Hour)
	require.NoError(t, err)
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	g := NewGate(tokens, &stubUsers{}, logging.NewSlogLogger(slog.New(h)))

	_, err = g.Authenticate(context.Background(), "Bearer nope")
	require.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Contains(t, buf.String(), `"module":"auth_gate"`)
	assert.Contains(t, buf.String(), `"msg":"token rejected"`)
}
