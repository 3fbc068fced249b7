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
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository for the embedded SQLite backend.
// Timestamps are stored as RFC 3339 text in UTC.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a Repository backed by SQLite. Timestamps are
// stored as RFC 3339 text.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, email, password_hash, name, role, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	created := r.now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		id, user.Email, user.PasswordHash, nullable(user.Name), string(user.Role), created.Format(time.RFC3339Nano))
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &models.User{ID: id, Email: user.Email, Name: user.Name, Role: user.Role, CreatedAt: created}, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, email, name, role, created_at FROM users WHERE email = ?`, email, false)
}

func (r *SQLiteRepository) FindCredentialsByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, email, name, role, created_at, password_hash FROM users WHERE email = ?`, email, true)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, email, name, role, created_at FROM users WHERE id = ?`, id, false)
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg string, withHash bool) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg), withHash, sqliteTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return user, nil
}

func sqliteTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected created_at type %T", v)
	}
}
