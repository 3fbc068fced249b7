package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// User is the public user record returned by signup, login and lookups.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the result of a successful signup or login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      *rpc.AuthServiceClient

	mu    sync.RWMutex
	token string
}

// NewAuthClient creates a client for endpointURL. Extra dial options are
// appended after the defaults.
func NewAuthClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAuthServiceClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// Token returns the current session token, or "".
func (c *GRPCClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *GRPCClient) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *GRPCClient) LoggedIn() bool { return c.Token() != "" }

// Logout forgets the session token. Tokens are stateless so nothing is sent.
func (c *GRPCClient) Logout() { c.setToken("") }

func (c *GRPCClient) Close() error { return c.conn.Close() }

// Signup registers a new account and stores the returned token.
func (c *GRPCClient) Signup(ctx context.Context, email, password string, name *string) (*Session, error) {
	req := map[string]any{"email": email, "password": password}
	if name != nil {
		req["name"] = *name
	}
	return c.authenticate(ctx, c.client.Signup, req)
}

// Login exchanges credentials for a token and stores it.
func (c *GRPCClient) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, c.client.Login, map[string]any{"email": email, "password": password})
}

type unaryMethod = func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func (c *GRPCClient) authenticate(ctx context.Context, method unaryMethod, req map[string]any) (*Session, error) {
	var s Session
	if err := c.call(ctx, method, req, &s); err != nil {
		return nil, err
	}
	c.setToken(s.Token)
	return &s, nil
}

// Me returns the identity behind the current token.
func (c *GRPCClient) Me(ctx context.Context) (*User, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	var out struct {
		User User `json:"user"`
	}
	if err := c.call(ctx, c.client.Me, map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// GetUser fetches any user by id. The server only allows this for admins.
func (c *GRPCClient) GetUser(ctx context.Context, id string) (*User, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	var out struct {
		User User `json:"user"`
	}
	if err := c.call(ctx, c.client.GetUser, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *GRPCClient) call(ctx context.Context, method unaryMethod, req any, out any) error {
	in, err := rpc.Encode(req)
	if err != nil {
		return err
	}
	res, err := method(ctx, in)
	if err != nil {
		return c.mapError(err)
	}
	return rpc.Decode(res, out)
}

// mapError turns statuses back into *common.Error values. An expired or
// revoked token also ends the local session.
func (c *GRPCClient) mapError(err error) error {
	if st, ok := status.FromError(err); ok && (st.Code() == codes.Unavailable || st.Code() == codes.DeadlineExceeded) {
		return ErrUnavailable
	}

	mapped := rpc.FromStatus(err)
	if errors.Is(mapped, common.ErrTokenExpired) || errors.Is(mapped, common.ErrUserNotFound) || errors.Is(mapped, common.ErrInvalidToken) {
		c.Logout()
	}
	return mapped
}
