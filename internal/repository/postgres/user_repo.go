package postgres

import (
	"context"
	"errors"

	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new identity. The uid is computed inside the INSERT
// itself, so allocation is a single atomic statement guarded by the primary
// key; a concurrent registration that lands on the same uid surfaces as
// errs.ErrUIDConflict and is retried by the service layer.
func (r *UserRepo) Create(ctx context.Context, name, email string) (*model.User, error) {
	const q = `
INSERT INTO users (uid, name, email)
VALUES ((SELECT COALESCE(MAX(uid), 0) + 1 FROM users), $1, $2)
RETURNING uid, created_at`
	u := model.User{Name: name, Email: email}
	err := r.db.Pool.QueryRow(ctx, q, name, email).Scan(&u.UID, &u.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "users_email_key" {
				return nil, errs.ErrDuplicateEmail
			}
			return nil, errs.ErrUIDConflict
		}
		return nil, err
	}
	return &u, nil
}

// GetByUID selects an identity by uid.
func (r *UserRepo) GetByUID(ctx context.Context, uid int64) (*model.User, error) {
	const q = `
SELECT uid, name, email, created_at
FROM users WHERE uid=$1`
	row := r.db.Pool.QueryRow(ctx, q, uid)
	var u model.User
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &u, nil
}
