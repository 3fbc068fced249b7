package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX using pgx placeholders.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a Repository backed by PostgreSQL via pgx.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, name, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	id := uuid.NewString()
	var created time.Time
	err := r.db.QueryRowContext(ctx, query,
		id, user.Email, user.PasswordHash, nullable(user.Name), string(user.Role)).Scan(&created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &models.User{ID: id, Email: user.Email, Name: user.Name, Role: user.Role, CreatedAt: created}, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, name, role, created_at FROM users
		 WHERE email = $1
		 `
	return r.findOne(ctx, query, email, false)
}

func (r *PostgresRepository) FindCredentialsByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, name, role, created_at, password_hash FROM users
		 WHERE email = $1
		 `
	return r.findOne(ctx, query, email, true)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	// ids are UUIDs; anything else cannot match and would only trip a cast error.
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, email, name, role, created_at FROM users
		 WHERE id = $1
		 `
	return r.findOne(ctx, query, id, false)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg string, withHash bool) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg), withHash, pgTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func pgTime(v any) (time.Time, error) {
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected created_at type %T", v)
	}
	return t, nil
}
