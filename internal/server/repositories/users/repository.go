// Package users is the user store: lookup and creation of user records.
//
// Lookups return the password-free projection except FindCredentialsByEmail,
// which is reserved for the login path. Missing rows are reported as
// common.ErrorNotFound and duplicate emails as common.ErrorAlreadyExists.
package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads id, email, name, role, created_at and optionally the hash.
func scanUser(row rowScanner, withHash bool, parseTime func(any) (time.Time, error)) (*models.User, error) {
	var (
		u       models.User
		name    sql.NullString
		role    string
		created any
	)

	dest := []any{&u.ID, &u.Email, &name, &role, &created}
	if withHash {
		dest = append(dest, &u.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if name.Valid {
		n := name.String
		u.Name = &n
	}
	u.Role = models.Role(role)

	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
