package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Gate authenticates requests carrying an "Authorization: Bearer <token>"
// credential. Every call performs exactly one user lookup.
type Gate struct {
	tokens TokenVerifier
	users  UserLookup
	log    logging.Logger
}

// NewGate returns a Gate that verifies tokens with tokens and resolves their
// subject through users. Log records are tagged module=auth_gate.
func NewGate(tokens TokenVerifier, users UserLookup, log logging.Logger) *Gate {
	return &Gate{tokens: tokens, users: users, log: log.With("module", "auth_gate")}
}

// BearerToken extracts the token from an Authorization header value.
// ok is false when the header is absent, uses another scheme or carries
// no token.
func BearerToken(header string) (token string, ok bool) {
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", false
	}
	token = strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

// Authenticate is a Step that binds the caller's identity to the context.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (context.Context, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return ctx, common.ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return ctx, common.ErrTokenExpired
		}
		g.log.Debug(ctx, "token rejected", "error", err)
		return ctx, common.ErrInvalidToken
	}

	user, err := g.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ctx, common.ErrUserNotFound
		}
		g.log.Error(ctx, "user lookup failed", "user_id", claims.Subject, "error", err)
		return ctx, common.Internal(err)
	}

	return WithIdentity(ctx, user.Identity()), nil
}
