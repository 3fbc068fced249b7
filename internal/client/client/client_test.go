package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeServer struct {
	lastAuth string
}

func (f *fakeServer) session(email string) (*structpb.Struct, error) {
	return rpc.Encode(map[string]any{
		"user":  map[string]any{"id": "u1", "email": email, "role": "USER", "createdAt": "2025-01-01T00:00:00Z"},
		"token": "tok-" + email,
	})
}

func (f *fakeServer) Signup(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email := in.GetFields()["email"].GetStringValue()
	if email == "taken@x.io" {
		return nil, rpc.ToStatus(common.ErrConflict, false)
	}
	return f.session(email)
}

func (f *fakeServer) Login(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in.GetFields()["password"].GetStringValue() != "secret1" {
		return nil, rpc.ToStatus(common.ErrInvalidCredentials, false)
	}
	return f.session(in.GetFields()["email"].GetStringValue())
}

func (f *fakeServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get("authorization"); len(v) > 0 {
		f.lastAuth = v[0]
	}
	if f.lastAuth == "Bearer expired" {
		return nil, rpc.ToStatus(common.ErrTokenExpired, false)
	}
	return rpc.Encode(map[string]any{"user": map[string]any{"id": "u1", "email": "a@b.com", "role": "USER"}})
}

func (f *fakeServer) GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, rpc.ToStatus(common.ErrForbidden, false)
}

func newTestClient(t *testing.T) (*GRPCClient, *fakeServer) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	fake := &fakeServer{}
	rpc.RegisterAuthServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewAuthClient("passthrough:///bufnet", time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
	})
	return c, fake
}

func TestSignupThenMe(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	s, err := c.Signup(ctx, "a@b.com", "secret1", nil)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", s.User.Email)
	assert.True(t, c.LoggedIn())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)
	assert.Equal(t, "Bearer tok-a@b.com", fake.lastAuth)

	c.Logout()
	assert.False(t, c.LoggedIn())
}

func TestErrorsAreMapped(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.Signup(ctx, "taken@x.io", "secret1", nil)
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = c.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	var ce *common.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Invalid email or password.", ce.Message)

	_, err = c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	_, err = c.GetUser(ctx, "u2")
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.True(t, c.LoggedIn())
}

func TestExpiredTokenEndsSession(t *testing.T) {
	c, _ := newTestClient(t)
	c.setToken("expired")

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.False(t, c.LoggedIn())
}
