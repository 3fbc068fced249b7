// Package client is the authctl side of the authgate gRPC API.
//
// GRPCClient dials the server once and keeps the session token in memory.
// A unary interceptor attaches it as "authorization: Bearer <token>" to every
// call made after signup or login.
//
// Errors come back as *common.Error values rebuilt from the status details,
// so callers can use errors.Is against the common sentinels. Transport
// failures (Unavailable, DeadlineExceeded) are reported as ErrUnavailable.
// Calls that need a session fail with ErrNotLoggedIn before reaching the
// network, and a server answer of TOKEN_EXPIRED, INVALID_TOKEN or
// USER_NOT_FOUND clears the stored token.
package client
