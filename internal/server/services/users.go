// Package services contains server-side business logic. UserService
// implements the credential flows: signup, login and identity retrieval.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authgate/internal/server/validation"
)

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Hasher is the password hashing the service needs.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) bool
	CompareDummy(password string)
}

// TokenIssuer mints bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      Hasher
	tokens      TokenIssuer
	validator   *validation.Validator
	log         logging.Logger
}

// NewUserService builds a UserService over the repositories vended by m for
// db. Log records are tagged module=user_service.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, hasher Hasher, tokens TokenIssuer, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		validator:   validation.New(),
		log:         log.With("module", "user_service"),
	}
}

// Signup registers a USER and returns it with a fresh token.
func (s *UserService) Signup(ctx context.Context, in validation.SignupInput) (*AuthResult, error) {
	r := s.validator.Signup(in)
	if !r.Valid() {
		return nil, r.Err()
	}
	input := r.Value
	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, common.ErrConflict
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "signup lookup failed", "error", err)
		return nil, common.Internal(err)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, common.Internal(err)
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        input.Email,
		PasswordHash: digest,
		Name:         input.Name,
		Role:         models.RoleUser,
	})
	if err != nil {
		// a concurrent signup may win between the lookup and the insert
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrConflict
		}
		s.log.Error(ctx, "user insert failed", "error", err)
		return nil, common.Internal(err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return s.issue(ctx, user)
}

// Login checks credentials. Unknown emails and wrong passwords are reported
// identically.
func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error) {
	r := s.validator.Login(in)
	if !r.Valid() {
		return nil, r.Err()
	}
	input := r.Value

	user, err := s.repomanager.Users(s.db).FindCredentialsByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(input.Password)
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "login lookup failed", "error", err)
		return nil, common.Internal(err)
	}

	if !s.hasher.Compare(user.PasswordHash, input.Password) {
		s.log.Debug(ctx, "login rejected", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}
	user.PasswordHash = ""

	return s.issue(ctx, user)
}

// CurrentIdentity returns the identity bound by the authentication gate.
func (s *UserService) CurrentIdentity(ctx context.Context) (models.Identity, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return models.Identity{}, common.ErrUnauthenticated
	}
	return id, nil
}

// GetUser looks a user up by id. Callers gate it behind the ADMIN role.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotFound.Wrap(err)
		}
		s.log.Error(ctx, "user lookup failed", "user_id", id, "error", err)
		return nil, common.Internal(err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *UserService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, common.Internal(err)
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}
